package buffer

import "fmt"

// Ring is a fixed-capacity FIFO of float64 samples.
type Ring struct {
	data []float64
	head int
	size int
}

// NewRing returns an empty ring able to hold capacity samples.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: ring capacity must be > 0: %d", ErrCapacity, capacity)
	}

	return &Ring{data: make([]float64, capacity)}, nil
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.data) }

// Len returns the number of buffered samples.
func (r *Ring) Len() int { return r.size }

// Free returns the number of samples that can still be written.
func (r *Ring) Free() int { return len(r.data) - r.size }

// Write appends as many samples of src as fit and returns that count.
func (r *Ring) Write(src []float64) int {
	n := min(len(src), r.Free())
	if n == 0 {
		return 0
	}

	tail := (r.head + r.size) % len(r.data)
	first := copy(r.data[tail:], src[:n])
	copy(r.data, src[first:n])

	r.size += n

	return n
}

// Peek copies buffered samples starting offset samples after the oldest one
// into dst without consuming them. It returns the number of samples copied.
func (r *Ring) Peek(dst []float64, offset int) int {
	if offset < 0 || offset >= r.size {
		return 0
	}

	n := min(len(dst), r.size-offset)
	start := (r.head + offset) % len(r.data)
	first := copy(dst[:n], r.data[start:])
	copy(dst[first:n], r.data)

	return n
}

// Discard drops up to n of the oldest samples and returns how many were dropped.
func (r *Ring) Discard(n int) int {
	n = max(0, min(n, r.size))
	r.head = (r.head + n) % len(r.data)
	r.size -= n

	if r.size == 0 {
		r.head = 0
	}

	return n
}

// Reset empties the ring and zeroes its storage.
func (r *Ring) Reset() {
	clear(r.data)
	r.head = 0
	r.size = 0
}
