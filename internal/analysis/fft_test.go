package analysis

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFT_Impulse(t *testing.T) {
	// An impulse has a flat spectrum
	data := []float64{1, 0, 0, 0}
	result := FFT(data)

	for i, v := range result {
		if math.Abs(cmplx.Abs(v)-1.0) > 1e-10 {
			t.Errorf("bin %d: expected magnitude 1.0, got %f", i, cmplx.Abs(v))
		}
	}
}

func TestFFT_Constant(t *testing.T) {
	// A constant concentrates all energy in the DC bin
	data := []float64{2, 2, 2, 2}
	result := FFT(data)

	if math.Abs(cmplx.Abs(result[0])-8.0) > 1e-10 {
		t.Errorf("DC bin: expected 8.0, got %f", cmplx.Abs(result[0]))
	}
	for i := 1; i < len(result); i++ {
		if cmplx.Abs(result[i]) > 1e-10 {
			t.Errorf("bin %d: expected 0, got %f", i, cmplx.Abs(result[i]))
		}
	}
}

func TestDominantFrequency_Sine(t *testing.T) {
	const (
		dt     = 0.01
		n      = 1024
		target = 5.0 // Hz
	)

	data := make([]float64, n)
	for i := range data {
		data[i] = 3.0 + math.Sin(2*math.Pi*target*float64(i)*dt)
	}

	got := DominantFrequency(data, dt)
	resolution := 1.0 / (float64(n) * dt)
	if math.Abs(got-target) > resolution {
		t.Errorf("expected dominant frequency near %f Hz, got %f Hz", target, got)
	}
}

func TestDominantFrequency_Flat(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 15.0
	}

	if got := DominantFrequency(data, 0.01); got != 0 {
		t.Errorf("expected 0 for a flat series, got %f", got)
	}
}

func TestSpectrum_TruncatesToPow2(t *testing.T) {
	// 100 samples should be analyzed as 64
	data := make([]float64, 100)
	for i := range data {
		data[i] = math.Sin(float64(i) * 0.3)
	}

	freqs, power := Spectrum(data, 0.01)
	if len(power) != 32 {
		t.Errorf("expected 32 bins, got %d", len(power))
	}
	if len(freqs) != len(power) {
		t.Errorf("frequency axis length %d does not match power length %d", len(freqs), len(power))
	}
}

func TestSpectrum_DegenerateInput(t *testing.T) {
	if f, p := Spectrum([]float64{1.0}, 0.01); f != nil || p != nil {
		t.Error("expected nil spectrum for a single sample")
	}
	if f, p := Spectrum([]float64{1, 2, 3, 4}, 0); f != nil || p != nil {
		t.Error("expected nil spectrum for dt=0")
	}
}
