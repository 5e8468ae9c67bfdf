package tune

import (
	"context"
	"math"
	"testing"

	"github.com/motorlab/motorlab/internal/loop"
	"github.com/motorlab/motorlab/internal/pid"
)

type integratingPlant struct {
	y float64
}

func (p *integratingPlant) Measure() float64    { return p.y }
func (p *integratingPlant) Apply(u, dt float64) { p.y += u * dt }

type sseMetric struct {
	sum float64
}

func (m *sseMetric) Name() string { return "sse" }
func (m *sseMetric) Observe(sp, y, u, t float64) {
	e := sp - y
	m.sum += e * e
}
func (m *sseMetric) Value() float64 { return m.sum }
func (m *sseMetric) Reset()         { m.sum = 0 }

func buildRunner(params map[string]float64) (*loop.Runner, loop.Config, error) {
	c, err := pid.New(params["kp"], params["ki"], params["kd"], 0.1, -100, 100)
	if err != nil {
		return nil, loop.Config{}, err
	}
	r := loop.New(c, &integratingPlant{}, loop.Constant(10.0))
	r.AddMetric(&sseMetric{})
	return r, loop.Config{Dt: 0.1, Duration: 5.0}, nil
}

func TestGridSearch_PrefersFasterGains(t *testing.T) {
	gs := NewGridSearch(
		[]string{"kp", "ki", "kd"},
		[][]float64{{0.5, 2.0}, {0}, {0}},
	)

	best, score, err := gs.Search(context.Background(), buildRunner, "sse")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if best == nil {
		t.Fatal("expected a best parameter set")
	}
	if best["kp"] != 2.0 {
		t.Errorf("expected kp=2.0 to win, got %f", best["kp"])
	}
	if math.IsInf(score, 1) {
		t.Error("expected a finite score")
	}
}

func TestGridSearch_SkipsFailedBuilds(t *testing.T) {
	gs := NewGridSearch([]string{"kp"}, [][]float64{{-1.0, 1.0}})

	// kp=-1 fails controller validation and must be skipped, not fatal
	best, _, err := gs.Search(context.Background(), buildRunner, "sse")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best["kp"] != 1.0 {
		t.Errorf("expected surviving candidate kp=1.0, got %f", best["kp"])
	}
}

func TestGridSearch_UnknownMetric(t *testing.T) {
	gs := NewGridSearch([]string{"kp"}, [][]float64{{1.0}})

	best, score, err := gs.Search(context.Background(), buildRunner, "nonexistent")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != nil {
		t.Errorf("expected no winner for unknown metric, got %v", best)
	}
	if !math.IsInf(score, 1) {
		t.Error("expected +Inf score")
	}
}

func TestGridSearch_CancelledContext(t *testing.T) {
	gs := NewGridSearch([]string{"kp"}, [][]float64{{1.0}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := gs.Search(ctx, buildRunner, "sse")
	if err == nil {
		t.Error("expected context error")
	}
}

func TestSpan(t *testing.T) {
	got := Span(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1.0}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("value %d: expected %f, got %f", i, want[i], got[i])
		}
	}

	if single := Span(3, 9, 1); len(single) != 1 || single[0] != 3 {
		t.Errorf("expected single point 3, got %v", single)
	}
}
