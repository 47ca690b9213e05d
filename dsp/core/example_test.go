package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

func ExampleSemitonesToRatio() {
	fmt.Printf("%.4f %.4f\n", core.SemitonesToRatio(12), core.SemitonesToRatio(-12))

	// Output:
	// 2.0000 0.5000
}

func ExampleNearestPowerOfTwo() {
	// 120 ms and 50 ms blocks at 44.1 kHz
	fmt.Println(core.NearestPowerOfTwo(0.120*44100), core.NearestPowerOfTwo(0.050*44100))

	// Output:
	// 4096 2048
}
