//go:build !fastmath

package pvoc

import "math"

func mathLog10(x float64) float64 {
	return math.Log10(x)
}
