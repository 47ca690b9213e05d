package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Accumulator is a circular overlap-add buffer.
//
// Position 0 is the oldest sample that has not yet been read. Frames are
// summed in at an offset relative to that position and Read pops finished
// samples off the front, clearing their slots for later frames.
type Accumulator struct {
	data []float64
	head int
}

// NewAccumulator returns a zeroed accumulator spanning capacity samples.
func NewAccumulator(capacity int) (*Accumulator, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: accumulator capacity must be > 0: %d", ErrCapacity, capacity)
	}

	return &Accumulator{data: make([]float64, capacity)}, nil
}

// Cap returns the span of the accumulator in samples.
func (a *Accumulator) Cap() int { return len(a.data) }

// Add sums frame into the accumulator starting offset samples after the
// read position. The part of frame that falls before the read position
// (negative offset) has already been emitted and is skipped.
func (a *Accumulator) Add(offset int, frame []float64) error {
	if offset < 0 {
		if -offset >= len(frame) {
			return nil
		}

		frame = frame[-offset:]
		offset = 0
	}

	if offset+len(frame) > len(a.data) {
		return fmt.Errorf("%w: frame [%d, %d) exceeds %d", ErrCapacity, offset, offset+len(frame), len(a.data))
	}

	start := (a.head + offset) % len(a.data)
	first := min(len(frame), len(a.data)-start)
	vecmath.AddBlockInPlace(a.data[start:start+first], frame[:first])

	if rest := frame[first:]; len(rest) > 0 {
		vecmath.AddBlockInPlace(a.data[:len(rest)], rest)
	}

	return nil
}

// Read pops len(dst) samples into dst and zeroes their slots.
// At most Cap samples can be read in one call.
func (a *Accumulator) Read(dst []float64) int {
	n := min(len(dst), len(a.data))

	for i := range n {
		idx := (a.head + i) % len(a.data)
		dst[i] = a.data[idx]
		a.data[idx] = 0
	}

	a.head = (a.head + n) % len(a.data)

	return n
}

// Reset zeroes the accumulator and rewinds the read position.
func (a *Accumulator) Reset() {
	clear(a.data)
	a.head = 0
}
