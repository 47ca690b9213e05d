package pvoc

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

const (
	// DefaultTransientThresholdDB is the broadband spectral rise that marks an onset.
	DefaultTransientThresholdDB = 6.0

	// binBurstRatio is the per-bin power growth (6 dB) that resets a single bin.
	binBurstRatio = 4.0
)

type config struct {
	peakLocking      bool
	perBinTransients bool
	thresholdDB      float64
}

func defaultConfig() config {
	return config{
		peakLocking: true,
		thresholdDB: DefaultTransientThresholdDB,
	}
}

// Option configures a Vocoder.
type Option func(*config) error

// WithPeakLocking enables or disables identity phase locking around
// magnitude peaks. It is enabled by default.
func WithPeakLocking(enabled bool) Option {
	return func(c *config) error {
		c.peakLocking = enabled
		return nil
	}
}

// WithPerBinTransients makes individual bins whose power jumps by more than
// 6 dB restart from their analysis phase, in addition to whole-frame resets.
func WithPerBinTransients(enabled bool) Option {
	return func(c *config) error {
		c.perBinTransients = enabled
		return nil
	}
}

// WithTransientThreshold sets the broadband rise in dB above which a frame
// is classified as a transient. Zero disables transient detection.
func WithTransientThreshold(db float64) Option {
	return func(c *config) error {
		if !core.IsFinite(db) || db < 0 {
			return fmt.Errorf("pvoc: transient threshold must be finite and >= 0: %f", db)
		}

		c.thresholdDB = db

		return nil
	}
}
