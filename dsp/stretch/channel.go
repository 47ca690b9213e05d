package stretch

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/pitch"
	"github.com/cwbudde/algo-stretch/dsp/pvoc"
	"github.com/cwbudde/algo-stretch/dsp/stft"
)

// channel owns all per-channel streaming state. Channels never share
// buffers, so frame passes of different channels may run concurrently.
type channel struct {
	in  *buffer.Ring
	acc *buffer.Accumulator

	ana   *stft.Analyzer
	syn   *stft.Synthesizer
	voc   *pvoc.Vocoder
	remap *pitch.Remapper

	frame []float64
	out   []float64
	spec  []complex128

	info    pvoc.FrameInfo
	cleared int
}

func newChannel(cfg Config, win []float64) (*channel, error) {
	tr, err := stft.NewTransform(cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	ana, err := stft.NewAnalyzer(tr, win)
	if err != nil {
		return nil, err
	}

	syn, err := stft.NewSynthesizer(tr, win)
	if err != nil {
		return nil, err
	}

	voc, err := pvoc.New(cfg.BlockSize, cfg.vocoderOptions()...)
	if err != nil {
		return nil, err
	}

	remap, err := pitch.NewRemapper(cfg.BlockSize, float64(cfg.SampleRate))
	if err != nil {
		return nil, err
	}

	remap.SetInterpolation(cfg.interpolation())

	in, err := buffer.NewRing(2 * cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	acc, err := buffer.NewAccumulator(cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	return &channel{
		in:    in,
		acc:   acc,
		ana:   ana,
		syn:   syn,
		voc:   voc,
		remap: remap,
		frame: make([]float64, cfg.BlockSize),
		out:   make([]float64, cfg.BlockSize),
		spec:  make([]complex128, tr.Bins()),
	}, nil
}

// load copies input samples [start, start+size) into the frame buffer.
// ringStart is the input index of the oldest buffered sample; anything not
// buffered reads as silence.
func (ch *channel) load(start, ringStart int) {
	core.Zero(ch.frame)

	lo := max(start, ringStart)
	hi := min(start+len(ch.frame), ringStart+ch.in.Len())

	if lo < hi {
		ch.in.Peek(ch.frame[lo-start:hi-start], lo-ringStart)
	}
}

func (ch *channel) analyze(hop int) error {
	if err := ch.ana.Analyze(ch.spec, ch.frame); err != nil {
		return fmt.Errorf("stretch: analysis: %w", err)
	}

	ch.cleared += stft.Sanitize(ch.spec)
	ch.info = ch.voc.Analyze(ch.spec, hop)

	return nil
}

func (ch *channel) synthesize(hop int, reset bool) error {
	if ch.info.Silent {
		ch.voc.Hold(ch.spec, ch.voc.Mag())
	} else {
		mag, freq, phase := ch.remap.Remap(ch.voc.Mag(), ch.voc.Freq(), ch.voc.Phase())
		ch.voc.Synthesize(ch.spec, mag, freq, phase, hop, reset)
	}

	if err := ch.syn.Synthesize(ch.out, ch.spec); err != nil {
		return fmt.Errorf("stretch: synthesis: %w", err)
	}

	return nil
}

func (ch *channel) reset() {
	ch.in.Reset()
	ch.acc.Reset()
	ch.voc.Reset()
	ch.info = pvoc.FrameInfo{}
	ch.cleared = 0
}
