package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeKaiser} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}

			// symmetric windows mirror around the centre
			for i := range 32 {
				if !almostEqual(w[i], w[63-i], 1e-12) {
					t.Fatalf("w[%d]=%v w[%d]=%v not symmetric", i, w[i], 63-i, w[63-i])
				}
			}
		})
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	sym := Generate(TypeHann, 16)
	per := Generate(TypeHann, 16, WithPeriodic())

	if almostEqual(sym[1], per[1], 1e-12) {
		t.Fatal("periodic and symmetric hann should differ")
	}

	if per[0] != 0 || !almostEqual(per[8], 1, 1e-12) {
		t.Fatalf("periodic hann: w[0]=%v w[8]=%v", per[0], per[8])
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should return nil")
	}

	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 1 {
		t.Fatalf("single sample window = %v", w)
	}

	if w := Generate(TypeKaiser, 8, WithAlpha(0)); w[0] != 1 {
		t.Fatalf("kaiser beta 0 should be rectangular: %v", w)
	}

	narrow := Generate(TypeKaiser, 33, WithAlpha(12))
	wide := Generate(TypeKaiser, 33, WithAlpha(2))
	if narrow[4] >= wide[4] {
		t.Fatalf("larger beta should taper more: %v vs %v", narrow[4], wide[4])
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "hann", want: TypeHann},
		{in: " Hanning ", want: TypeHann},
		{in: "rect", want: TypeRectangular},
		{in: "BLACKMAN", want: TypeBlackman},
		{in: "kaiser", want: TypeKaiser},
		{in: "hamming", want: TypeHamming},
		{in: "triangle", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownType) {
				t.Errorf("ParseType(%q) err = %v, want ErrUnknownType", tt.in, err)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Errorf("ParseType(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	var typ Type
	if err := typ.UnmarshalText([]byte("blackman")); err != nil || typ != TypeBlackman {
		t.Fatalf("UnmarshalText = %v, %v", typ, err)
	}

	if Type(42).Valid() || Type(42).String() != "window(42)" {
		t.Fatal("out-of-range type should be invalid")
	}
}

func TestApplyCoefficientsHelpers(t *testing.T) {
	samples := []float64{1, 2, 3}
	coeffs := []float64{0.5, 1, 2}
	dst := make([]float64, 3)

	if err := ApplyCoefficients(dst, samples, coeffs); err != nil {
		t.Fatal(err)
	}

	want := []float64{0.5, 2, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d]=%v want %v", i, dst[i], want[i])
		}
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs[:2]); !errors.Is(err, ErrMismatchedLength) {
		t.Fatalf("expected ErrMismatchedLength, got %v", err)
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil || samples[2] != 6 {
		t.Fatalf("in place: %v %v", samples, err)
	}
}

func TestEquivalentNoiseBandwidth(t *testing.T) {
	enbw, err := EquivalentNoiseBandwidth(Generate(TypeHann, 4096, WithPeriodic()))
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(enbw, 1.5, 1e-6) {
		t.Fatalf("hann ENBW=%v want 1.5", enbw)
	}

	if _, err := EquivalentNoiseBandwidth(nil); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
