package stft

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/window"
)

// Analyzer windows time-domain frames and transforms them to half spectra.
type Analyzer struct {
	tr     Transform
	window []float64
	work   []float64
}

// NewAnalyzer returns an analyzer applying win before the forward transform.
// win must have tr.Size() coefficients.
func NewAnalyzer(tr Transform, win []float64) (*Analyzer, error) {
	if len(win) != tr.Size() {
		return nil, fmt.Errorf("%w: window=%d transform=%d", ErrLength, len(win), tr.Size())
	}

	return &Analyzer{
		tr:     tr,
		window: win,
		work:   make([]float64, tr.Size()),
	}, nil
}

// Analyze windows frame and writes its spectrum into dst. frame is not modified.
func (a *Analyzer) Analyze(dst []complex128, frame []float64) error {
	if err := window.ApplyCoefficients(a.work, frame, a.window); err != nil {
		return fmt.Errorf("stft: analysis window: %w", err)
	}

	return a.tr.Forward(dst, a.work)
}

// Synthesizer inverse-transforms half spectra and applies a synthesis window.
type Synthesizer struct {
	tr     Transform
	window []float64
}

// NewSynthesizer returns a synthesizer applying win after the inverse transform.
func NewSynthesizer(tr Transform, win []float64) (*Synthesizer, error) {
	if len(win) != tr.Size() {
		return nil, fmt.Errorf("%w: window=%d transform=%d", ErrLength, len(win), tr.Size())
	}

	return &Synthesizer{tr: tr, window: win}, nil
}

// Synthesize writes the windowed time-domain frame of spec into dst.
func (s *Synthesizer) Synthesize(dst []float64, spec []complex128) error {
	if err := s.tr.Inverse(dst, spec); err != nil {
		return err
	}

	return window.ApplyCoefficientsInPlace(dst, s.window)
}
