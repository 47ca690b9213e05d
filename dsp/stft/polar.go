package stft

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// Polar holds the magnitude and phase of a half spectrum.
type Polar struct {
	Mag   []float64
	Phase []float64

	re []float64
	im []float64
}

// NewPolar allocates polar storage for bins frequency bins.
func NewPolar(bins int) *Polar {
	return &Polar{
		Mag:   make([]float64, bins),
		Phase: make([]float64, bins),
		re:    make([]float64, bins),
		im:    make([]float64, bins),
	}
}

// Bins returns the number of frequency bins.
func (p *Polar) Bins() int { return len(p.Mag) }

// From fills Mag and Phase from spec, which must have Bins() values.
func (p *Polar) From(spec []complex128) {
	for k, v := range spec {
		p.re[k] = real(v)
		p.im[k] = imag(v)
		p.Phase[k] = math.Atan2(p.im[k], p.re[k])
	}

	vecmath.Magnitude(p.Mag, p.re, p.im)
}

// To writes Mag·e^(i·Phase) into spec.
func (p *Polar) To(spec []complex128) {
	for k := range spec {
		spec[k] = cmplx.Rect(p.Mag[k], p.Phase[k])
	}
}

// Power writes |spec[k]|² into dst using the cached real/imaginary parts of
// the last From call.
func (p *Polar) Power(dst []float64) {
	vecmath.Power(dst, p.re, p.im)
}

// Sanitize zeroes every bin of spec whose real or imaginary part is NaN or
// infinite and returns the number of bins it cleared.
func Sanitize(spec []complex128) int {
	cleared := 0

	for k, v := range spec {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			spec[k] = 0
			cleared++
		}
	}

	return cleared
}
