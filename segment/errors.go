package segment

import "errors"

var (
	// ErrOutOfRange indicates an offset/count pair outside the caller's
	// slice, or a negative store position.
	ErrOutOfRange = errors.New("segment: offset or count out of range")

	// ErrCapacityExhausted indicates a write would push the store length past
	// Options.MaxCapacity. The store is left untouched.
	//
	// This is a configuration error; retrying the same write cannot succeed.
	ErrCapacityExhausted = errors.New("segment: capacity exhausted")

	// ErrClosed indicates the Store has been closed.
	//
	// This is a programming error.
	ErrClosed = errors.New("segment: store is closed")
)
