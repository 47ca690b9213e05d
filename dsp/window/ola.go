package window

import (
	"fmt"
	"math"
)

// gainFloor is the smallest overlap-add gain accepted as invertible.
const gainFloor = 1e-6

// OverlapAddGain returns the periodic gain table of a weighted overlap-add
// with the given analysis and synthesis windows advanced by hop samples.
//
// Entry q holds sum_j analysis[q+j*hop] * synthesis[q+j*hop]. An output
// sample that sits at offset i inside the frames covering it has gain
// table[i mod hop]; dividing by that entry makes identity resynthesis exact.
func OverlapAddGain(analysis, synthesis []float64, hop int) ([]float64, error) {
	n := len(analysis)
	if n == 0 {
		return nil, ErrInvalidLength
	}

	if len(synthesis) != n {
		return nil, ErrMismatchedLength
	}

	if hop <= 0 || hop > n {
		return nil, fmt.Errorf("%w: hop=%d length=%d", ErrInvalidHop, hop, n)
	}

	gain := make([]float64, hop)
	for i := range n {
		gain[i%hop] += analysis[i] * synthesis[i]
	}

	for q, g := range gain {
		if !(g > gainFloor) {
			return nil, fmt.Errorf("%w at offset %d (hop=%d length=%d)", ErrZeroGain, q, hop, n)
		}
	}

	return gain, nil
}

// COLARipple returns the peak-to-peak deviation of a gain table relative to
// its mean. Zero means the window pair satisfies constant overlap-add exactly.
func COLARipple(gain []float64) float64 {
	if len(gain) == 0 {
		return math.Inf(1)
	}

	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, g := range gain {
		lo = math.Min(lo, g)
		hi = math.Max(hi, g)
		sum += g
	}

	mean := sum / float64(len(gain))
	if mean == 0 {
		return math.Inf(1)
	}

	return (hi - lo) / mean
}
