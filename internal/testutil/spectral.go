package testutil

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-stretch/stats/frequency"
	"github.com/mjibson/go-dsp/fft"
)

// MagnitudeSpectrum returns the one-sided magnitude spectrum of a
// Hann-windowed copy of signal. It uses an FFT independent of the one under
// test so results can serve as a reference.
func MagnitudeSpectrum(signal []float64) []float64 {
	if len(signal) < 2 {
		return nil
	}

	buf := append([]float64(nil), signal...)
	window.Apply(window.TypeHann, buf, window.WithPeriodic())

	spec := fft.FFTReal(buf)
	mag := make([]float64, len(buf)/2+1)
	for k := range mag {
		mag[k] = cmplx.Abs(spec[k])
	}

	return mag
}

// SpectralCentroid returns the spectral centroid of signal in Hz.
func SpectralCentroid(signal []float64, sampleRate float64) float64 {
	return frequency.Centroid(MagnitudeSpectrum(signal), sampleRate)
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin.
func DominantFrequency(signal []float64, sampleRate float64) float64 {
	mag := MagnitudeSpectrum(signal)
	if len(mag) < 2 {
		return 0
	}

	best := 1
	for k := 2; k < len(mag); k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}

	return frequency.BinFreq(best, sampleRate, len(mag))
}

// Correlation returns the Pearson correlation of the common prefix of a and
// b. It returns 0 when either input has no variance.
func Correlation(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	var meanA, meanB float64
	for i := range n {
		meanA += a[i]
		meanB += b[i]
	}

	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := range n {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0
	}

	return cov / math.Sqrt(varA*varB)
}
