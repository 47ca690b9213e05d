// Package time computes level statistics of time-domain signals.
package time

import "math"

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}

	return peak
}

// Envelope returns the RMS of consecutive, non-overlapping segments of the
// given size. A trailing partial segment is included.
func Envelope(signal []float64, size int) []float64 {
	if size <= 0 || len(signal) == 0 {
		return nil
	}

	out := make([]float64, 0, (len(signal)+size-1)/size)
	for start := 0; start < len(signal); start += size {
		out = append(out, RMS(signal[start:min(start+size, len(signal))]))
	}

	return out
}
