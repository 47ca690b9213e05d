package stretch

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/pitch"
)

const (
	defaultTimeFactor = 1.0
	defaultTranspose  = 1.0
)

// Stretcher is a streaming time-stretch and pitch-shift session.
//
// Input is fed in chunks of any size with Process; output becomes available
// one synthesis hop at a time once enough input for a full analysis frame
// has been buffered. Flush drains the tail. All channels share one frame
// clock so they stay phase aligned.
//
// A Stretcher is not safe for concurrent use. Distinct sessions share no
// state.
type Stretcher struct {
	cfg    Config
	logger *log.Logger

	ratio         float64
	tonalityLimit float64
	freqMap       pitch.FreqMap

	clock     clock
	invGain   []float64
	channels  []*channel
	ringStart int

	state   State
	flushed bool
	closed  bool
}

// New returns a session for one channel at 44.1 kHz with StyleDefault
// unless options say otherwise.
func New(opts ...Option) (*Stretcher, error) {
	set := defaultSettings()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&set); err != nil {
			return nil, err
		}
	}

	if set.useEnv {
		overrides, err := LoadEnvOverrides()
		if err != nil {
			return nil, err
		}

		set.cfg = set.cfg.WithEnv(overrides)

		lvl, err := overrides.level()
		if err != nil {
			return nil, err
		}

		if lvl != nil {
			set.logger.SetLevel(*lvl)
		}
	}

	s := &Stretcher{
		logger: set.logger,
		ratio:  defaultTranspose,
		clock:  clock{factor: defaultTimeFactor},
	}

	if err := s.Configure(set.cfg); err != nil {
		return nil, err
	}

	return s, nil
}

// Configure validates cfg and re-allocates all streaming state. Time factor
// and transpose settings are kept. On error the session is unchanged.
func (s *Stretcher) Configure(cfg Config) error {
	if s.closed {
		return ErrClosed
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	win, gain, err := cfg.windowGain()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	channels := make([]*channel, cfg.Channels)
	for i := range channels {
		ch, err := newChannel(cfg, win)
		if err != nil {
			return fmt.Errorf("%w: channel %d: %w", ErrConfiguration, i, err)
		}

		if err := ch.remap.SetTranspose(s.ratio, s.tonalityLimit); err != nil {
			return fmt.Errorf("%w: channel %d: %w", ErrConfiguration, i, err)
		}

		ch.remap.SetFreqMap(s.freqMap)
		channels[i] = ch
	}

	invGain := make([]float64, len(gain))
	for i, g := range gain {
		invGain[i] = 1 / g
	}

	s.cfg = cfg
	s.channels = channels
	s.invGain = invGain
	s.clock = newClock(cfg.BlockSize, cfg.Hop, s.clock.factor)
	s.ringStart = 0
	s.state = StateIdle
	s.flushed = false

	s.logger.Debug("configured",
		"channels", cfg.Channels,
		"sampleRate", cfg.SampleRate,
		"block", cfg.BlockSize,
		"hop", cfg.Hop,
		"window", cfg.Window,
		"quality", cfg.Quality,
	)

	return nil
}

// Preset configures the session from a style. Calling it again
// re-allocates all state.
func (s *Stretcher) Preset(channels, sampleRate int, style Style) error {
	cfg, err := PresetConfig(channels, sampleRate, style)
	if err != nil {
		return err
	}

	return s.Configure(cfg)
}

// SetTimeFactor sets the rate divisor: the output of n input samples is
// n/f samples long, so 0.5 doubles the duration and 2 halves it. The new
// value applies from the next frame on.
func (s *Stretcher) SetTimeFactor(f float64) error {
	if s.closed {
		return ErrClosed
	}

	if !core.IsFinitePositive(f) {
		return fmt.Errorf("%w: time factor must be positive and finite: %f", ErrInvalidParameter, f)
	}

	s.clock.setFactor(f)

	return nil
}

// TimeFactor returns the current time factor.
func (s *Stretcher) TimeFactor() float64 { return s.clock.factor }

// SetTransposeSemitones sets the pitch shift in semitones. The tonality
// limit is kept.
func (s *Stretcher) SetTransposeSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("%w: transpose must be finite: %f semitones", ErrInvalidParameter, semitones)
	}

	return s.SetTransposeFactor(core.SemitonesToRatio(semitones), s.tonalityLimit)
}

// TransposeSemitones returns the pitch shift in semitones.
func (s *Stretcher) TransposeSemitones() float64 { return core.RatioToSemitones(s.ratio) }

// SetTransposeFactor sets the pitch ratio and the tonality limit in Hz.
// Above tonalityLimitHz/sqrt(ratio), partials are moved by a constant
// offset instead of being scaled. Zero disables the limit.
func (s *Stretcher) SetTransposeFactor(ratio, tonalityLimitHz float64) error {
	if s.closed {
		return ErrClosed
	}

	if !core.IsFinitePositive(ratio) {
		return fmt.Errorf("%w: transpose ratio must be positive and finite: %g", ErrInvalidParameter, ratio)
	}

	if !core.IsFinite(tonalityLimitHz) || tonalityLimitHz < 0 {
		return fmt.Errorf("%w: tonality limit must be finite and >= 0: %g", ErrInvalidParameter, tonalityLimitHz)
	}

	for _, ch := range s.channels {
		if err := ch.remap.SetTranspose(ratio, tonalityLimitHz); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}
	}

	s.ratio = ratio
	s.tonalityLimit = tonalityLimitHz

	return nil
}

// TransposeFactor returns the pitch ratio.
func (s *Stretcher) TransposeFactor() float64 { return s.ratio }

// TonalityLimit returns the tonality limit in Hz (0 when disabled).
func (s *Stretcher) TonalityLimit() float64 { return s.tonalityLimit }

// SetFreqMap installs a custom input-to-output frequency map in Hz that
// replaces the transpose ratio. nil restores ratio-based transposition.
func (s *Stretcher) SetFreqMap(fn func(hz float64) float64) error {
	if s.closed {
		return ErrClosed
	}

	s.freqMap = fn
	for _, ch := range s.channels {
		ch.remap.SetFreqMap(fn)
	}

	return nil
}

// Reset clears all streaming state. Configuration, time factor and
// transpose settings are kept.
func (s *Stretcher) Reset() error {
	if s.closed {
		return ErrClosed
	}

	for _, ch := range s.channels {
		ch.reset()
	}

	s.clock.reset()
	s.ringStart = 0
	s.state = StateIdle
	s.flushed = false

	s.logger.Debug("reset")

	return nil
}

// Close releases all buffers. Every later call returns ErrClosed; closing
// twice is a no-op.
func (s *Stretcher) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	s.channels = nil
	s.invGain = nil

	s.logger.Debug("closed")

	return nil
}

// OutputLength returns the flushed output length for n input samples at
// the current time factor.
func (s *Stretcher) OutputLength(n int) int {
	if n <= 0 {
		return 0
	}

	return int(float64(n)/s.clock.factor + lengthEpsilon)
}

// MaxOutput returns an upper bound on the samples per channel a ProcessTo
// call with n input samples per channel can produce.
func (s *Stretcher) MaxOutput(n int) int { return s.clock.maxOutput(n) }

// Channels returns the configured channel count.
func (s *Stretcher) Channels() int { return s.cfg.Channels }

// SampleRate returns the configured sample rate in Hz.
func (s *Stretcher) SampleRate() int { return s.cfg.SampleRate }

// BlockSize returns the transform length in samples.
func (s *Stretcher) BlockSize() int { return s.cfg.BlockSize }

// Hop returns the synthesis interval in samples.
func (s *Stretcher) Hop() int { return s.cfg.Hop }

// InputLatency returns how many input samples past a given point must be
// supplied before its output is complete.
func (s *Stretcher) InputLatency() int { return s.cfg.BlockSize / 2 }

// OutputLatency returns the output-side frame extent in samples.
func (s *Stretcher) OutputLatency() int { return s.cfg.BlockSize / 2 }

// Config returns the active configuration.
func (s *Stretcher) Config() Config { return s.cfg }

// State returns the streaming state.
func (s *Stretcher) State() State { return s.state }
