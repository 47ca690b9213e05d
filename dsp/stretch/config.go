package stretch

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-stretch/dsp/pvoc"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

const (
	// MinBlockSize is the smallest accepted transform length.
	MinBlockSize = 16

	defaultChannels   = 1
	defaultSampleRate = 44100
)

// Quality selects how much work the phase vocoder spends per frame.
type Quality int

const (
	// QualityFast disables peak locking and uses linear magnitude
	// interpolation when transposing.
	QualityFast Quality = iota
	// QualityBalanced adds identity phase locking around spectral peaks.
	QualityBalanced
	// QualityHigh adds cubic magnitude interpolation and per-bin transient
	// phase resets.
	QualityHigh

	qualityCount
)

var qualityNames = [qualityCount]string{"fast", "balanced", "high"}

// String returns the lower-case quality name.
func (q Quality) String() string {
	if q.Valid() {
		return qualityNames[q]
	}

	return fmt.Sprintf("Quality(%d)", int(q))
}

// Valid reports whether q is a known quality tier.
func (q Quality) Valid() bool {
	return q >= 0 && q < qualityCount
}

// UnmarshalText parses a quality name.
func (q *Quality) UnmarshalText(text []byte) error {
	parsed, err := ParseQuality(string(text))
	if err != nil {
		return err
	}

	*q = parsed

	return nil
}

// ParseQuality maps "fast", "balanced" or "high" (case-insensitive) to a Quality.
func ParseQuality(name string) (Quality, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range qualityNames {
		if n == key {
			return Quality(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown quality %q", ErrConfiguration, name)
}

// Config fixes everything that determines buffer sizes. Changing it means
// re-allocating the session state.
type Config struct {
	Channels   int
	SampleRate int

	// BlockSize is the transform length in samples. Any even size >= 16 is
	// accepted; powers of two use the faster transform backend.
	BlockSize int
	// Hop is the synthesis interval in samples, 1..BlockSize/2.
	Hop int

	// Window is used for both analysis and synthesis.
	Window  window.Type
	Quality Quality

	// TransientThresholdDB is the broadband spectral rise that restarts the
	// synthesis phase. Zero disables transient handling.
	TransientThresholdDB float64
	// LinkTransients makes a transient in any channel reset all channels.
	LinkTransients bool
	// ParallelChannels runs the per-channel frame passes on separate
	// goroutines.
	ParallelChannels bool
}

// Validate checks c and reports the first problem wrapped in ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels must be > 0: %d", ErrConfiguration, c.Channels)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be > 0: %d", ErrConfiguration, c.SampleRate)
	case c.BlockSize < MinBlockSize || c.BlockSize%2 != 0:
		return fmt.Errorf("%w: block size must be even and >= %d: %d", ErrConfiguration, MinBlockSize, c.BlockSize)
	case c.Hop < 1 || c.Hop > c.BlockSize/2:
		return fmt.Errorf("%w: hop must be in [1, %d]: %d", ErrConfiguration, c.BlockSize/2, c.Hop)
	case !c.Window.Valid():
		return fmt.Errorf("%w: unknown window %d", ErrConfiguration, int(c.Window))
	case !c.Quality.Valid():
		return fmt.Errorf("%w: unknown quality %d", ErrConfiguration, int(c.Quality))
	case !core.IsFinite(c.TransientThresholdDB) || c.TransientThresholdDB < 0:
		return fmt.Errorf("%w: transient threshold must be finite and >= 0: %f",
			ErrConfiguration, c.TransientThresholdDB)
	}

	if _, _, err := c.windowGain(); err != nil {
		return fmt.Errorf("%w: %s window with hop %d: %w", ErrConfiguration, c.Window, c.Hop, err)
	}

	return nil
}

// Overlap returns BlockSize/Hop, the number of frames covering each sample.
func (c Config) Overlap() float64 {
	if c.Hop <= 0 {
		return 0
	}

	return float64(c.BlockSize) / float64(c.Hop)
}

// windowGain returns the periodic window and the overlap-add gain table for
// the configured hop.
func (c Config) windowGain() ([]float64, []float64, error) {
	win := window.Generate(c.Window, c.BlockSize, window.WithPeriodic())

	gain, err := window.OverlapAddGain(win, win, c.Hop)
	if err != nil {
		return nil, nil, err
	}

	return win, gain, nil
}

func (c Config) vocoderOptions() []pvoc.Option {
	return []pvoc.Option{
		pvoc.WithPeakLocking(c.Quality >= QualityBalanced),
		pvoc.WithPerBinTransients(c.Quality == QualityHigh),
		pvoc.WithTransientThreshold(c.TransientThresholdDB),
	}
}

func (c Config) interpolation() interp.Mode {
	if c.Quality == QualityHigh {
		return interp.ModeCubic
	}

	return interp.ModeLinear
}
