package buffer

import "errors"

// ErrCapacity reports a non-positive capacity or a write past the end of
// an accumulator.
var ErrCapacity = errors.New("buffer: capacity exceeded")
