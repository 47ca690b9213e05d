package stft

import "errors"

var (
	// ErrSize reports an unsupported transform size.
	ErrSize = errors.New("stft: transform size must be even and >= 2")
	// ErrLength reports a frame or spectrum slice of the wrong length.
	ErrLength = errors.New("stft: buffer length mismatch")
)
