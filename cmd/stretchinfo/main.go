// Command stretchinfo prints the stretch presets and the framing properties
// they resolve to at a given sample rate.
//
// Usage:
//
//	stretchinfo [flags] [style ...]
//
// Without arguments it prints every style.
//
// Examples:
//
//	stretchinfo
//	stretchinfo -rate 48000 vocal percussive
//	stretchinfo -factor 0.8 -seconds 10 mix
//	STRETCH_BLOCK_SIZE=2048 stretchinfo -env default
//	stretchinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

var styles = []stretch.Style{
	stretch.StyleDefault,
	stretch.StyleCheaper,
	stretch.StyleVocal,
	stretch.StyleMix,
	stretch.StylePercussive,
}

type options struct {
	rate     int
	channels int
	factor   float64
	seconds  float64
	env      bool
}

func main() {
	var opts options

	flag.IntVar(&opts.rate, "rate", 44100, "sample rate in Hz")
	flag.IntVar(&opts.channels, "channels", 2, "channel count")
	flag.Float64Var(&opts.factor, "factor", 1, "time factor used for the output length column (output = input / factor)")
	flag.Float64Var(&opts.seconds, "seconds", 1, "input duration used for the output length column")
	flag.BoolVar(&opts.env, "env", false, "apply STRETCH_* environment overrides")
	list := flag.Bool("list", false, "list available style names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stretchinfo [flags] [style ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the framing of the time-stretch presets.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every style.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stretchinfo -rate 48000 vocal percussive\n")
		fmt.Fprintf(os.Stderr, "  stretchinfo -factor 0.8 -seconds 10 mix\n")
		fmt.Fprintf(os.Stderr, "  stretchinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList(os.Stdout)
		return
	}

	selected, err := resolveStyles(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := printPresets(os.Stdout, selected, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList(w io.Writer) {
	for _, s := range styles {
		fmt.Fprintln(w, s)
	}
}

func resolveStyles(names []string) ([]stretch.Style, error) {
	if len(names) == 0 {
		return styles, nil
	}

	result := make([]stretch.Style, 0, len(names))
	for _, name := range names {
		style, err := stretch.ParseStyle(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("%w (use -list to see available)", err)
		}

		result = append(result, style)
	}

	return result, nil
}

type presetRow struct {
	style     stretch.Style
	cfg       stretch.Config
	latencyMs float64
	enbw      float64
	ripple    float64
	output    int
}

func describe(style stretch.Style, opts options, overrides *stretch.EnvOverrides) (presetRow, error) {
	cfg, err := stretch.PresetConfig(opts.channels, opts.rate, style)
	if err != nil {
		return presetRow{}, err
	}

	if overrides != nil {
		cfg = cfg.WithEnv(*overrides)
	}

	s, err := stretch.New(stretch.WithConfig(cfg))
	if err != nil {
		return presetRow{}, err
	}
	defer s.Close()

	if err := s.SetTimeFactor(opts.factor); err != nil {
		return presetRow{}, err
	}

	coeffs := window.Generate(cfg.Window, cfg.BlockSize, window.WithPeriodic())

	enbw, err := window.EquivalentNoiseBandwidth(coeffs)
	if err != nil {
		return presetRow{}, err
	}

	gain, err := window.OverlapAddGain(coeffs, coeffs, cfg.Hop)
	if err != nil {
		return presetRow{}, err
	}

	latency := s.InputLatency() + s.OutputLatency()

	return presetRow{
		style:     style,
		cfg:       cfg,
		latencyMs: 1000 * float64(latency) / float64(cfg.SampleRate),
		enbw:      enbw,
		ripple:    window.COLARipple(gain),
		output:    s.OutputLength(int(opts.seconds * float64(cfg.SampleRate))),
	}, nil
}

func printPresets(w io.Writer, selected []stretch.Style, opts options) error {
	var overrides *stretch.EnvOverrides
	if opts.env {
		o, err := stretch.LoadEnvOverrides()
		if err != nil {
			return err
		}

		overrides = &o
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Style\tBlock\tHop\tOverlap\tQuality\tWindow\tLatency [ms]\tENBW [bins]\tCOLA Ripple\tOutput [samples]\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t-----\t---\t-------\t-------\t------\t------------\t-----------\t-----------\t----------------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, style := range selected {
		row, err := describe(style, opts, overrides)
		if err != nil {
			return fmt.Errorf("%s: %w", style, err)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f\t%s\t%s\t%.1f\t%.4f\t%.2e\t%d\n",
			row.style,
			row.cfg.BlockSize,
			row.cfg.Hop,
			row.cfg.Overlap(),
			row.cfg.Quality,
			row.cfg.Window,
			row.latencyMs,
			row.enbw,
			row.ripple,
			row.output,
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
