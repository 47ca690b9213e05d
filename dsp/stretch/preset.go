package stretch

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/pvoc"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

// Style names a tuning preset.
type Style int

const (
	StyleDefault    Style = iota // general material, ~120 ms blocks
	StyleCheaper                 // smaller blocks, 2x overlap, fast tier
	StyleVocal                   // short blocks tuned for speech and singing
	StyleMix                     // long blocks with 8x overlap for dense mixes
	StylePercussive              // very short blocks, sensitive transients

	styleCount // sentinel
)

var styleNames = [styleCount]string{"default", "cheaper", "vocal", "mix", "percussive"}

// String returns the lower-case style tag.
func (s Style) String() string {
	if s.Valid() {
		return styleNames[s]
	}

	return fmt.Sprintf("Style(%d)", int(s))
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	return s >= 0 && s < styleCount
}

// ParseStyle maps a style tag to a Style. The empty tag selects StyleDefault.
func ParseStyle(tag string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if key == "" {
		return StyleDefault, nil
	}

	for i, n := range styleNames {
		if n == key {
			return Style(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown style %q", ErrConfiguration, tag)
}

type styleTuning struct {
	blockSeconds float64
	overlap      int
	quality      Quality
	thresholdDB  float64
}

var styleTunings = [styleCount]styleTuning{
	StyleDefault:    {blockSeconds: 0.120, overlap: 4, quality: QualityBalanced, thresholdDB: pvoc.DefaultTransientThresholdDB},
	StyleCheaper:    {blockSeconds: 0.100, overlap: 2, quality: QualityFast, thresholdDB: pvoc.DefaultTransientThresholdDB},
	StyleVocal:      {blockSeconds: 0.050, overlap: 4, quality: QualityHigh, thresholdDB: 8},
	StyleMix:        {blockSeconds: 0.180, overlap: 8, quality: QualityHigh, thresholdDB: pvoc.DefaultTransientThresholdDB},
	StylePercussive: {blockSeconds: 0.025, overlap: 4, quality: QualityBalanced, thresholdDB: 4},
}

// PresetConfig returns the configuration of a style for the given channel
// count and sample rate. The block size is the power of two nearest to the
// style's block duration.
func PresetConfig(channels, sampleRate int, style Style) (Config, error) {
	if !style.Valid() {
		return Config{}, fmt.Errorf("%w: unknown style %d", ErrConfiguration, int(style))
	}

	if channels <= 0 {
		return Config{}, fmt.Errorf("%w: channels must be > 0: %d", ErrConfiguration, channels)
	}

	if sampleRate <= 0 {
		return Config{}, fmt.Errorf("%w: sample rate must be > 0: %d", ErrConfiguration, sampleRate)
	}

	tuning := styleTunings[style]
	block := max(MinBlockSize, core.NearestPowerOfTwo(tuning.blockSeconds*float64(sampleRate)))

	cfg := Config{
		Channels:             channels,
		SampleRate:           sampleRate,
		BlockSize:            block,
		Hop:                  block / tuning.overlap,
		Window:               window.TypeHann,
		Quality:              tuning.quality,
		TransientThresholdDB: tuning.thresholdDB,
		LinkTransients:       true,
	}

	return cfg, cfg.Validate()
}

// DefaultConfig returns the StyleDefault configuration for one channel at
// 44.1 kHz.
func DefaultConfig() Config {
	cfg, _ := PresetConfig(defaultChannels, defaultSampleRate, StyleDefault)
	return cfg
}
