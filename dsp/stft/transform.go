package stft

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

// Transform is a real-to-half-spectrum Fourier transform of fixed size.
type Transform interface {
	// Size returns the time-domain frame length.
	Size() int
	// Bins returns the half-spectrum length, Size()/2+1.
	Bins() int
	// Forward transforms src (Size samples) into dst (Bins values).
	Forward(dst []complex128, src []float64) error
	// Inverse transforms src (Bins values) into dst (Size samples), scaled by 1/Size.
	Inverse(dst []float64, src []complex128) error
}

// NewTransform returns a transform of the given size. Power-of-two sizes use
// an algo-fft plan; other even sizes fall back to a mixed-radix real FFT.
func NewTransform(size int) (Transform, error) {
	if size < 2 || size%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}

	if core.IsPowerOfTwo(size) {
		return newPlanTransform(size)
	}

	return newMixedRadixTransform(size), nil
}

type planTransform struct {
	size int
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
}

func newPlanTransform(size int) (*planTransform, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	return &planTransform{
		size: size,
		plan: plan,
		in:   make([]complex128, size),
		out:  make([]complex128, size),
	}, nil
}

func (t *planTransform) Size() int { return t.size }
func (t *planTransform) Bins() int { return t.size/2 + 1 }

func (t *planTransform) Forward(dst []complex128, src []float64) error {
	if len(src) != t.size || len(dst) != t.Bins() {
		return fmt.Errorf("%w: forward src=%d dst=%d", ErrLength, len(src), len(dst))
	}

	for i, x := range src {
		t.in[i] = complex(x, 0)
	}

	if err := t.plan.Forward(t.out, t.in); err != nil {
		return fmt.Errorf("stft: forward FFT failed: %w", err)
	}

	copy(dst, t.out[:t.Bins()])

	return nil
}

func (t *planTransform) Inverse(dst []float64, src []complex128) error {
	half := t.size / 2
	if len(src) != half+1 || len(dst) != t.size {
		return fmt.Errorf("%w: inverse src=%d dst=%d", ErrLength, len(src), len(dst))
	}

	// mirror for a real-valued result
	t.in[0] = complex(real(src[0]), 0)
	t.in[half] = complex(real(src[half]), 0)

	for k := 1; k < half; k++ {
		v := src[k]
		t.in[k] = v
		t.in[t.size-k] = complex(real(v), -imag(v))
	}

	if err := t.plan.Inverse(t.out, t.in); err != nil {
		return fmt.Errorf("stft: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(t.out[i])
	}

	return nil
}

type mixedRadixTransform struct {
	size  int
	fft   *fourier.FFT
	scale float64
}

func newMixedRadixTransform(size int) *mixedRadixTransform {
	return &mixedRadixTransform{
		size:  size,
		fft:   fourier.NewFFT(size),
		scale: 1 / float64(size),
	}
}

func (t *mixedRadixTransform) Size() int { return t.size }
func (t *mixedRadixTransform) Bins() int { return t.size/2 + 1 }

func (t *mixedRadixTransform) Forward(dst []complex128, src []float64) error {
	if len(src) != t.size || len(dst) != t.Bins() {
		return fmt.Errorf("%w: forward src=%d dst=%d", ErrLength, len(src), len(dst))
	}

	t.fft.Coefficients(dst, src)

	return nil
}

func (t *mixedRadixTransform) Inverse(dst []float64, src []complex128) error {
	if len(src) != t.Bins() || len(dst) != t.size {
		return fmt.Errorf("%w: inverse src=%d dst=%d", ErrLength, len(src), len(dst))
	}

	t.fft.Sequence(dst, src)
	core.Scale(dst, t.scale)

	return nil
}
