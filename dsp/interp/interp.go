package interp

import "fmt"

// Mode selects an interpolation kernel.
type Mode int

const (
	ModeLinear Mode = iota
	ModeCubic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeCubic:
		return "cubic"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Linear2 interpolates from x0 to x1 at t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// At samples data at fractional index pos. Neighbours outside the slice are
// clamped to the edge values. Positions outside [0, len-1] return 0.
func At(mode Mode, data []float64, pos float64) float64 {
	last := len(data) - 1
	if last < 0 || pos < 0 || pos > float64(last) {
		return 0
	}

	i := int(pos)
	t := pos - float64(i)

	if i == last {
		return data[last]
	}

	if mode != ModeCubic {
		return Linear2(t, data[i], data[i+1])
	}

	xm1 := data[max(i-1, 0)]
	x2 := data[min(i+2, last)]

	return Hermite4(t, xm1, data[i], data[i+1], x2)
}
