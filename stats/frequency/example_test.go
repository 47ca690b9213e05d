package frequency_test

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/stats/frequency"
)

func ExampleCentroid() {
	// energy only in the bin at a quarter of the sample rate
	mag := []float64{0, 0, 1, 0, 0}
	fmt.Printf("%.0f Hz\n", frequency.Centroid(mag, 44100))

	// Output:
	// 11025 Hz
}
