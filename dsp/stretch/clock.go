package stretch

import "math"

// lengthEpsilon absorbs rounding in n/factor before flooring.
const lengthEpsilon = 1e-9

// clock is the master frame clock shared by every channel of a session.
//
// Synthesis frames are centred at multiples of the hop. The analysis centre
// advances by hop*factor per frame and is rounded to a whole input sample,
// so output sample t lines up with input sample t*factor while the factor
// is constant.
type clock struct {
	size int
	half int
	hop  int

	factor float64

	firstSyn   int
	synPos     int
	anaPos     float64
	prevCentre int
	frames     int

	inputCount int
	emitted    int

	// outBase is the output owed for input received before the last factor
	// change; inSince counts input received after it.
	outBase float64
	inSince int
}

func newClock(size, hop int, factor float64) clock {
	half := size / 2
	c := clock{
		size:     size,
		half:     half,
		hop:      hop,
		factor:   factor,
		firstSyn: (int(math.Floor(-float64(half)/float64(hop))) + 1) * hop,
	}
	c.reset()

	return c
}

func (c *clock) reset() {
	c.synPos = c.firstSyn
	c.anaPos = float64(c.synPos) * c.factor
	c.prevCentre = 0
	c.frames = 0
	c.inputCount = 0
	c.emitted = 0
	c.outBase = 0
	c.inSince = 0
}

// setFactor changes the rate for all frames not yet run.
func (c *clock) setFactor(factor float64) {
	if c.frames == 0 {
		c.factor = factor
		c.anaPos = float64(c.synPos) * factor

		return
	}

	c.outBase += float64(c.inSince) / c.factor
	c.inSince = 0
	c.factor = factor
}

func (c *clock) centre() int { return int(math.Floor(c.anaPos + 0.5)) }

// frameStart is the input index of the first sample of the next frame.
func (c *clock) frameStart() int { return c.centre() - c.half }

// frameOffset is the position of the next synthesis frame relative to the
// first output sample not yet emitted.
func (c *clock) frameOffset() int { return c.synPos - c.half - c.emitted }

func (c *clock) frameReady(flushing bool) bool {
	return flushing || c.inputCount >= c.frameStart()+c.size
}

// analysisHop is the distance between the next analysis centre and the
// previous one, or 0 before the first frame.
func (c *clock) analysisHop() int {
	if c.frames == 0 {
		return 0
	}

	return c.centre() - c.prevCentre
}

func (c *clock) advance() {
	c.prevCentre = c.centre()
	c.synPos += c.hop
	c.anaPos += float64(c.hop) * c.factor
	c.frames++
}

// completed is the number of output samples no later frame can touch.
func (c *clock) completed() int { return c.synPos - c.half }

func (c *clock) consume(n int) {
	c.inputCount += n
	c.inSince += n
}

// target is the total output length owed for the input received so far.
func (c *clock) target() int {
	return int(math.Floor(c.outBase + float64(c.inSince)/c.factor + lengthEpsilon))
}

// maxOutput bounds the samples that n further input samples can release.
func (c *clock) maxOutput(n int) int {
	if n <= 0 {
		return 0
	}

	frames := math.Floor(float64(n+1)/(float64(c.hop)*c.factor)) + 2
	limit := float64(math.MaxInt32) / float64(c.hop)

	return int(math.Min(frames, limit)) * c.hop
}
