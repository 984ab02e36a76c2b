package alloc

import "errors"

var (
	// ErrNoSpace indicates the arena could not be grown to satisfy an
	// allocation request.
	ErrNoSpace = errors.New("alloc: arena exhausted")

	// ErrBadRef indicates an invalid, out-of-bounds, or stale block
	// reference.
	ErrBadRef = errors.New("alloc: bad block reference")
)
