package stretch

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

type settings struct {
	cfg    Config
	logger *log.Logger
	useEnv bool
}

// Option configures New.
type Option func(*settings) error

// WithLogger routes session diagnostics to logger. Sessions are silent by
// default.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", ErrConfiguration)
		}

		s.logger = logger

		return nil
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		s.cfg = cfg

		return nil
	}
}

// WithStyle applies a style preset, keeping the channel count and sample
// rate chosen so far.
func WithStyle(style Style) Option {
	return func(s *settings) error {
		cfg, err := PresetConfig(s.cfg.Channels, s.cfg.SampleRate, style)
		if err != nil {
			return err
		}

		s.cfg = cfg

		return nil
	}
}

// WithEnv applies the STRETCH_* environment overrides on top of the
// configuration after all other options ran.
func WithEnv() Option {
	return func(s *settings) error {
		s.useEnv = true
		return nil
	}
}

func defaultSettings() settings {
	return settings{
		cfg:    DefaultConfig(),
		logger: log.NewWithOptions(io.Discard, log.Options{Prefix: "stretch"}),
	}
}
