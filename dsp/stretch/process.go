package stretch

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

// Process feeds one chunk (channels x samples) and returns the output that
// became available. All channels must carry the same number of samples.
// The result is freshly allocated; use ProcessTo on real-time paths.
func (s *Stretcher) Process(in [][]float64) ([][]float64, error) {
	n, err := s.checkInput(in)
	if err != nil {
		return nil, err
	}

	out := s.allocOutput(s.MaxOutput(n))

	written, err := s.ProcessTo(out, in)
	if err != nil {
		return nil, err
	}

	return trimOutput(out, written), nil
}

// ProcessTo is Process writing into caller-owned buffers. Every out[c]
// must hold at least MaxOutput(len(in[0])) samples, otherwise
// ErrOutputTooSmall is returned and nothing changes. It returns the number
// of samples written per channel.
func (s *Stretcher) ProcessTo(out, in [][]float64) (int, error) {
	n, err := s.checkInput(in)
	if err != nil {
		return 0, err
	}

	if err := s.checkOutput(out, s.MaxOutput(n)); err != nil {
		return 0, err
	}

	if n == 0 {
		return 0, nil
	}

	written, pos := 0, 0

	for {
		k, err := s.runFrames(out, written, false, -1)
		if err != nil {
			return written, err
		}

		written += k

		if pos == n {
			break
		}

		pos += s.feed(in, pos, n)
	}

	switch {
	case written > 0:
		s.state = StateEmitted
	case s.clock.inputCount > 0:
		s.state = StateAccumulating
	default:
		s.state = StateIdle
	}

	s.reportCleared()

	return written, nil
}

// Flush pushes the buffered input through the pipeline, padding with
// silence, and returns the remaining output. Afterwards Process returns
// ErrFlushed until Reset.
func (s *Stretcher) Flush() ([][]float64, error) {
	if s.closed {
		return nil, ErrClosed
	}

	out := s.allocOutput(s.pending())

	written, err := s.FlushTo(out)
	if err != nil {
		return nil, err
	}

	return trimOutput(out, written), nil
}

// FlushTo is Flush writing into caller-owned buffers, which must hold the
// whole tail (OutputLength of all input minus what was already returned).
func (s *Stretcher) FlushTo(out [][]float64) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	if s.flushed {
		return 0, nil
	}

	if err := s.checkOutput(out, s.pending()); err != nil {
		return 0, err
	}

	target := s.clock.target()
	written := 0

	for s.clock.emitted < target {
		k, err := s.runFrames(out, written, true, target)
		if err != nil {
			return written, err
		}

		written += k
	}

	s.flushed = true
	s.state = StateFlushed
	s.reportCleared()

	s.logger.Debug("flushed", "tail", written, "total", s.clock.emitted)

	return written, nil
}

// ProcessAll stretches a whole signal in one go: it resets the session,
// processes in and flushes. The result holds exactly OutputLength(n)
// samples per channel.
func (s *Stretcher) ProcessAll(in [][]float64) ([][]float64, error) {
	n, err := s.checkShape(in)
	if err != nil {
		return nil, err
	}

	if err := s.Reset(); err != nil {
		return nil, err
	}

	out := s.allocOutput(max(s.MaxOutput(n), s.OutputLength(n)))

	written, err := s.ProcessTo(out, in)
	if err != nil {
		return nil, err
	}

	tail := make([][]float64, len(out))
	for c := range out {
		tail[c] = out[c][written:]
	}

	k, err := s.FlushTo(tail)
	if err != nil {
		return nil, err
	}

	return trimOutput(out, written+k), nil
}

// runFrames runs every frame that is ready and writes the finished samples
// to out starting at offset. While flushing, frames are always ready and
// output stops at limit.
func (s *Stretcher) runFrames(out [][]float64, offset int, flushing bool, limit int) (int, error) {
	c := &s.clock
	written := 0

	for {
		s.discardTo(c.frameStart())

		if !c.frameReady(flushing) || (flushing && c.emitted >= limit) {
			return written, nil
		}

		s.state = StateFrameReady

		if err := s.runFrame(); err != nil {
			return written, err
		}

		written += s.pop(out, offset+written, limit)
	}
}

func (s *Stretcher) runFrame() error {
	c := &s.clock
	start, anaHop := c.frameStart(), c.analysisHop()

	err := s.eachChannel(func(ch *channel) error {
		ch.load(start, s.ringStart)
		return ch.analyze(anaHop)
	})
	if err != nil {
		return err
	}

	linked := false
	if s.cfg.LinkTransients {
		for _, ch := range s.channels {
			linked = linked || ch.info.Transient
		}
	}

	offset := c.frameOffset()

	err = s.eachChannel(func(ch *channel) error {
		if err := ch.synthesize(c.hop, linked || ch.info.Transient); err != nil {
			return err
		}

		return ch.acc.Add(offset, ch.out)
	})
	if err != nil {
		return err
	}

	c.advance()

	return nil
}

func (s *Stretcher) eachChannel(fn func(ch *channel) error) error {
	if !s.cfg.ParallelChannels || len(s.channels) < 2 {
		for _, ch := range s.channels {
			if err := fn(ch); err != nil {
				return err
			}
		}

		return nil
	}

	var g errgroup.Group
	for _, ch := range s.channels {
		g.Go(func() error { return fn(ch) })
	}

	return g.Wait()
}

// pop moves finished output samples into out and removes the overlap-add
// window gain. limit < 0 means no limit.
func (s *Stretcher) pop(out [][]float64, offset, limit int) int {
	c := &s.clock

	end := c.completed()
	if limit >= 0 {
		end = min(end, limit)
	}

	n := end - c.emitted
	if n <= 0 {
		return 0
	}

	phase := (c.emitted + c.half) % c.hop

	for i, ch := range s.channels {
		dst := out[i][offset : offset+n]
		ch.acc.Read(dst)

		q := phase
		for j := range dst {
			dst[j] = core.FlushDenormals(dst[j] * s.invGain[q])

			q++
			if q == c.hop {
				q = 0
			}
		}
	}

	c.emitted += n

	return n
}

// discardTo drops buffered input before index start. If start lies beyond
// the buffered input, samples before it are dropped as they arrive.
func (s *Stretcher) discardTo(start int) {
	if start <= s.ringStart {
		return
	}

	dropped := 0
	for _, ch := range s.channels {
		dropped = ch.in.Discard(start - s.ringStart)
	}

	s.ringStart += dropped

	if s.ringStart < start && s.channels[0].in.Len() == 0 {
		s.ringStart = start
	}
}

// feed moves input[pos:] into the rings as far as they have room and
// returns how many samples per channel it consumed.
func (s *Stretcher) feed(in [][]float64, pos, n int) int {
	if gap := s.ringStart - s.clock.inputCount; gap > 0 {
		skipped := min(gap, n-pos)
		s.clock.consume(skipped)

		return skipped
	}

	w := min(s.channels[0].in.Free(), n-pos)
	for i, ch := range s.channels {
		ch.in.Write(in[i][pos : pos+w])
	}

	s.clock.consume(w)

	return w
}

func (s *Stretcher) pending() int {
	return max(0, s.clock.target()-s.clock.emitted)
}

func (s *Stretcher) reportCleared() {
	cleared := 0
	for _, ch := range s.channels {
		cleared += ch.cleared
		ch.cleared = 0
	}

	if cleared > 0 {
		s.logger.Warn("zeroed non-finite spectral bins", "bins", cleared)
	}
}

// checkShape validates the channel layout of in and returns the common
// per-channel length.
func (s *Stretcher) checkShape(in [][]float64) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	if len(in) != s.cfg.Channels {
		return 0, fmt.Errorf("%w: got %d channels, want %d", ErrShapeMismatch, len(in), s.cfg.Channels)
	}

	n := len(in[0])
	for c, samples := range in {
		if len(samples) != n {
			return 0, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrShapeMismatch, c, len(samples), n)
		}
	}

	return n, nil
}

func (s *Stretcher) checkInput(in [][]float64) (int, error) {
	n, err := s.checkShape(in)
	if err != nil {
		return 0, err
	}

	if s.flushed {
		return 0, ErrFlushed
	}

	return n, nil
}

func (s *Stretcher) checkOutput(out [][]float64, need int) error {
	if len(out) != s.cfg.Channels {
		return fmt.Errorf("%w: got %d output channels, want %d", ErrShapeMismatch, len(out), s.cfg.Channels)
	}

	for c, buf := range out {
		if len(buf) < need {
			return fmt.Errorf("%w: channel %d holds %d samples, need %d", ErrOutputTooSmall, c, len(buf), need)
		}
	}

	return nil
}

func (s *Stretcher) allocOutput(n int) [][]float64 {
	out := make([][]float64, s.cfg.Channels)
	for c := range out {
		out[c] = make([]float64, n)
	}

	return out
}

func trimOutput(out [][]float64, n int) [][]float64 {
	for c := range out {
		out[c] = out[c][:n]
	}

	return out
}
