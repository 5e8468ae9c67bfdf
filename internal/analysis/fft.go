// Package analysis provides frequency-domain inspection of recorded runs.
// A sharp peak in the spectrum of the tracking error is the usual signature
// of gains pushed past the oscillation boundary.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data using a recursive
// radix-2 decimation. The length must be a power of two; Spectrum takes
// care of truncation so callers normally go through it instead.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// Spectrum returns the one-sided magnitude spectrum of data sampled at
// interval dt, along with the matching frequency axis in hertz. The input
// is truncated to the largest power-of-two length and mean-removed, so the
// DC bin reflects oscillation rather than operating point.
func Spectrum(data []float64, dt float64) (freqs, power []float64) {
	n := largestPow2(len(data))
	if n < 2 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range data[:n] {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i := 0; i < n; i++ {
		centered[i] = data[i] - mean
	}

	fft := FFT(centered)
	power = make([]float64, n/2)
	freqs = make([]float64, n/2)
	for i := range power {
		power[i] = cmplx.Abs(fft[i])
		freqs[i] = float64(i) / (float64(n) * dt)
	}
	return freqs, power
}

// DominantFrequency returns the frequency in hertz of the strongest
// non-DC component of data, or 0 when the series is too short or flat
// to analyze.
func DominantFrequency(data []float64, dt float64) float64 {
	freqs, power := Spectrum(data, dt)
	if len(power) < 2 {
		return 0
	}

	bestIdx := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[bestIdx] {
			bestIdx = i
		}
	}
	if power[bestIdx] == 0 {
		return 0
	}
	return freqs[bestIdx]
}

func largestPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
