//go:build fastmath

package pvoc

import "github.com/meko-christian/algo-approx"

const ln10 = 2.302585092994045684017991454684

// mathLog10 computes log10(x) as ln(x)/ln(10) with the fast approximation.
func mathLog10(x float64) float64 {
	return approx.FastLog(x) / ln10
}
