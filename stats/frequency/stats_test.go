package frequency

import (
	"math"
	"testing"
)

func TestBinFreqRoundTrip(t *testing.T) {
	const bins = 513

	if got := BinFreq(512, 48000, bins); got != 24000 {
		t.Fatalf("Nyquist bin = %v", got)
	}

	if got := FreqBin(BinFreq(37, 44100, bins), 44100, bins); math.Abs(got-37) > 1e-9 {
		t.Fatalf("round trip = %v", got)
	}

	if BinFreq(3, 44100, 1) != 0 || FreqBin(100, 0, bins) != 0 {
		t.Fatal("degenerate inputs should yield 0")
	}
}

func TestEnergyAndFlux(t *testing.T) {
	if got := Energy([]float64{1, 2, 3}); got != 6 {
		t.Fatalf("Energy = %v", got)
	}

	if Energy(nil) != 0 {
		t.Fatal("empty energy should be 0")
	}

	cur := []float64{1, 5, 2, 7}
	prev := []float64{2, 3, 2, 4, 100}

	if got := PositiveFlux(cur, prev); got != 5 {
		t.Fatalf("PositiveFlux = %v, want 5", got)
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name string
		mag  []float64
		sr   float64
		want float64
	}{
		{name: "single peak", mag: []float64{0, 0, 1, 0, 0}, sr: 8000, want: 2000},
		{name: "two equal peaks", mag: []float64{0, 1, 0, 1, 0}, sr: 8000, want: 2000},
		{name: "silent", mag: []float64{0, 0, 0}, sr: 8000, want: 0},
		{name: "too short", mag: []float64{1}, sr: 8000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Centroid(tt.mag, tt.sr); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Centroid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeaks(t *testing.T) {
	tests := []struct {
		name string
		mag  []float64
		want []int
	}{
		{name: "empty", mag: nil, want: nil},
		{name: "single bin", mag: []float64{3}, want: []int{0}},
		{name: "interior", mag: []float64{0, 1, 0, 2, 0}, want: []int{1, 3}},
		{name: "edges", mag: []float64{5, 1, 0, 1, 4}, want: []int{0, 4}},
		{name: "plateau keeps last bin", mag: []float64{0, 2, 2, 2, 1}, want: []int{3}},
		{name: "flat", mag: []float64{0, 0, 0}, want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Peaks(nil, tt.mag)
			if len(got) != len(tt.want) {
				t.Fatalf("Peaks = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Peaks = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPeaksReusesDst(t *testing.T) {
	buf := make([]int, 0, 8)

	got := Peaks(buf, []float64{0, 1, 0})
	if len(got) != 1 || got[0] != 1 || cap(got) != 8 {
		t.Fatalf("Peaks = %v (cap %d)", got, cap(got))
	}
}
