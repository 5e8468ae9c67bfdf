// Package report renders recorded runs to PNG images for offline review.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/motorlab/motorlab/internal/loop"
)

// SaveStepResponse writes a plot of setpoint and measurement over time to
// path, with the run's metrics stamped under the title.
func SaveStepResponse(path, title string, result *loop.Result, metrics map[string]float64) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	p.Title.Text = annotate(title, metrics)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "speed"

	err = plotutil.AddLinePoints(p,
		"Setpoint", toXYs(result.Times, result.Setpoints),
		"Measurement", toXYs(result.Times, result.Measurements),
	)
	if err != nil {
		return fmt.Errorf("add series: %w", err)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// SaveControlEffort writes a plot of the controller output over time to
// path, useful for spotting saturation and chatter.
func SaveControlEffort(path, title string, result *loop.Result, metrics map[string]float64) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	p.Title.Text = annotate(title, metrics)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "control output"

	err = plotutil.AddLinePoints(p, "Output", toXYs(result.Times, result.Outputs))
	if err != nil {
		return fmt.Errorf("add series: %w", err)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// annotate appends a metrics line to the plot title. Non-finite values
// (a loop that never settled) are left off the figure.
func annotate(title string, metrics map[string]float64) string {
	line := formatMetrics(metrics)
	if line == "" {
		return title
	}
	return title + "\n" + line
}

func formatMetrics(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name, val := range metrics {
		if math.IsInf(val, 0) || math.IsNaN(val) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.4g", name, metrics[name]))
	}
	return strings.Join(parts, "  ")
}

func toXYs(x, y []float64) plotter.XYs {
	points := make(plotter.XYs, len(x))
	for i := range points {
		points[i].X = x[i]
		points[i].Y = y[i]
	}
	return points
}
