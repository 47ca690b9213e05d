package stretch

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-stretch/dsp/window"
)

// EnvOverrides holds tuning read from the environment. Unset variables leave
// the corresponding field at its zero value (or nil) and change nothing.
type EnvOverrides struct {
	BlockSize   int          `env:"STRETCH_BLOCK_SIZE"`
	Hop         int          `env:"STRETCH_HOP"`
	Quality     *Quality     `env:"STRETCH_QUALITY"`
	Window      *window.Type `env:"STRETCH_WINDOW"`
	TransientDB *float64     `env:"STRETCH_TRANSIENT_DB"`
	LogLevel    string       `env:"STRETCH_LOG_LEVEL"`
}

// LoadEnvOverrides parses the STRETCH_* variables of the process environment.
func LoadEnvOverrides() (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return EnvOverrides{}, fmt.Errorf("%w: environment: %w", ErrConfiguration, err)
	}

	if _, err := o.level(); err != nil {
		return EnvOverrides{}, err
	}

	return o, nil
}

// level returns the parsed log level and whether one was set.
func (o EnvOverrides) level() (*log.Level, error) {
	if o.LogLevel == "" {
		return nil, nil //nolint:nilnil
	}

	lvl, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: STRETCH_LOG_LEVEL: %w", ErrConfiguration, err)
	}

	return &lvl, nil
}

// WithEnv returns c with the overrides applied. A new block size without a
// new hop keeps the overlap factor of c. The result is not validated.
func (c Config) WithEnv(o EnvOverrides) Config {
	if o.BlockSize > 0 && o.BlockSize != c.BlockSize {
		if o.Hop <= 0 && c.Hop > 0 {
			c.Hop = max(1, o.BlockSize*c.Hop/max(c.BlockSize, 1))
		}

		c.BlockSize = o.BlockSize
	}

	if o.Hop > 0 {
		c.Hop = o.Hop
	}

	if o.Quality != nil {
		c.Quality = *o.Quality
	}

	if o.Window != nil {
		c.Window = *o.Window
	}

	if o.TransientDB != nil {
		c.TransientThresholdDB = *o.TransientDB
	}

	return c
}
