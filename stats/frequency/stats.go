// Package frequency computes descriptors of one-sided spectra: energy,
// positive spectral flux, the spectral centroid and magnitude peaks.
//
// Magnitude slices represent bins from 0 (DC) to Nyquist, length
// FFTSize/2 + 1. The frequency of bin i is
//
//	f_i = i * sampleRate / (2 * (len(magnitude) - 1))
package frequency

import "github.com/cwbudde/algo-vecmath"

// BinFreq returns the frequency in Hz of bin i of a one-sided spectrum with
// binCount bins.
func BinFreq(i int, sampleRate float64, binCount int) float64 {
	if binCount < 2 {
		return 0
	}

	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// FreqBin is the inverse of BinFreq: the fractional bin index of hz.
func FreqBin(hz, sampleRate float64, binCount int) float64 {
	if binCount < 2 || sampleRate <= 0 {
		return 0
	}

	return hz * float64(2*(binCount-1)) / sampleRate
}

// Energy returns the sum of a power spectrum.
func Energy(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}

	return vecmath.Sum(power)
}

// PositiveFlux returns the half-wave rectified spectral flux between two
// magnitude spectra: sum(max(0, cur_i - prev_i)). Only the common prefix of
// the two slices is compared.
func PositiveFlux(cur, prev []float64) float64 {
	n := min(len(cur), len(prev))

	flux := 0.0
	for i := range n {
		if d := cur[i] - prev[i]; d > 0 {
			flux += d
		}
	}

	return flux
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	sum := vecmath.Sum(magnitude)
	if sum == 0 {
		return 0
	}

	weightedSum := 0.0
	for i, v := range magnitude {
		weightedSum += BinFreq(i, sampleRate, n) * v
	}

	return weightedSum / sum
}

// Peaks appends the indices of the local maxima of magnitude to dst and
// returns the extended slice. Bin k is a peak when it is >= its lower
// neighbour and > its upper neighbour, so a plateau yields its last bin.
// The edge bins compare against their single neighbour.
func Peaks(dst []int, magnitude []float64) []int {
	last := len(magnitude) - 1

	for k := 0; k <= last; k++ {
		if k > 0 && magnitude[k] < magnitude[k-1] {
			continue
		}

		if k < last && magnitude[k] <= magnitude[k+1] {
			continue
		}

		dst = append(dst, k)
	}

	return dst
}
