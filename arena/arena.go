// Package arena supplies the raw linear memory region the allocator
// carves blocks from.
//
// An arena is a single contiguous byte region that only ever grows, in
// increments requested by the caller. Offsets into the region are
// stable across growth; the backing slice returned by Bytes is not and
// must be re-fetched after every Grow.
//
// Two backends are provided:
//
//   - Mmap: an anonymous memory mapping with a fixed reservation,
//     committed page by page as the arena grows (linux and darwin).
//   - Slice: an ordinary Go slice with a configurable page size and an
//     optional hard cap, for portable use and deterministic tests.
package arena

import "errors"

// ErrExhausted is returned by Grow when the backing memory cannot be
// extended any further.
var ErrExhausted = errors.New("arena: backing memory exhausted")

// DefaultPageSize is the growth granularity used by the slice backend
// when none is specified.
const DefaultPageSize = 4096

// Arena is the contract the allocator requires from its memory
// supplier: a growth granularity, the current extent, the live bytes,
// and a grow-by-n primitive.
type Arena interface {
	// PageSize returns the natural growth granularity in bytes.
	PageSize() int

	// Size returns the current arena size in bytes. Offset 0 is the low
	// end of the region; Size is one past the high end.
	Size() int

	// Bytes returns the live backing slice, exactly Size bytes long.
	// The slice is invalidated by Grow.
	Bytes() []byte

	// Grow extends the arena by exactly n bytes, zero-filled, and
	// returns the offset at which the new region starts (the previous
	// Size). Returns ErrExhausted when the backing memory is spent.
	Grow(n int) (int, error)

	// Release frees the backing memory. The arena must not be used
	// afterwards.
	Release() error
}
