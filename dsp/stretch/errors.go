package stretch

import "errors"

var (
	// ErrConfiguration reports an invalid Config, preset or style.
	ErrConfiguration = errors.New("stretch: invalid configuration")
	// ErrInvalidParameter reports a rejected time factor, transpose value or
	// tonality limit. The previous value is kept.
	ErrInvalidParameter = errors.New("stretch: invalid parameter")
	// ErrShapeMismatch reports input or output buffers whose channel count or
	// per-channel lengths do not match the session.
	ErrShapeMismatch = errors.New("stretch: buffer shape mismatch")
	// ErrFlushed is returned by Process after Flush until Reset is called.
	ErrFlushed = errors.New("stretch: session flushed, reset required")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("stretch: session closed")
	// ErrOutputTooSmall reports an output buffer shorter than the worst-case
	// number of samples the call could produce.
	ErrOutputTooSmall = errors.New("stretch: output buffer too small")
)
