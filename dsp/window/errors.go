package window

import "errors"

var (
	// ErrInvalidLength reports an empty or non-positive window length.
	ErrInvalidLength = errors.New("window: length must be > 0")
	// ErrInvalidHop reports a hop outside [1, window length].
	ErrInvalidHop = errors.New("window: hop must be in [1, length]")
	// ErrMismatchedLength reports slices that must share a length but do not.
	ErrMismatchedLength = errors.New("window: samples and coefficients must have same length")
	// ErrZeroGain reports a window (pair) whose summed gain vanishes somewhere.
	ErrZeroGain = errors.New("window: overlap-add gain is zero")
	// ErrUnknownType reports an unrecognized window name.
	ErrUnknownType = errors.New("window: unknown type")
)
