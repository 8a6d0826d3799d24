package ring

import "errors"

var (
	// ErrOutOfRange indicates an offset/count pair outside the bounds of the
	// caller's slice.
	ErrOutOfRange = errors.New("ring: offset or count out of range")

	// ErrAccessDenied is returned by Bytes when the buffer was constructed
	// with Options.HideBuffer.
	ErrAccessDenied = errors.New("ring: backing buffer is not exposed")
)
