// Package alloc implements a boundary-tag heap allocator over a single
// growable arena.
//
// # Overview
//
// The allocator manages the arena as a sequence of contiguous blocks,
// each starting with a one-word tag encoding its size and two status
// flags (used, preceding-used). Free blocks are additionally threaded
// onto an intrusive doubly-linked free list stored in their own memory,
// and mirror their header tag into a trailing footer so the coalescer
// can find them from the block above.
//
// Policies:
//
//   - First-fit search from the free-list head
//   - LIFO insertion of freed blocks
//   - Immediate bidirectional coalescing (no two free blocks are ever
//     adjacent in address order)
//   - Splitting when the remainder would itself be a legal block
//   - Page-granular arena growth when no free block fits
//
// # Usage Example
//
//	mem := arena.NewSlice(4096)
//	a, err := alloc.New(mem)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//	    return err
//	}
//
//	// Write into buf...
//
//	a.Free(ref)
//
// # Refs
//
// A Ref is an arena-relative byte offset pointing at the payload, one
// word past the block header — the offset equivalent of the pointer a
// C allocator would return. Refs are stable across arena growth.
//
// # Error model
//
// Alloc(0) returns NoRef with no state change; it is not an error.
// Alloc propagates ErrNoSpace when the arena cannot grow. Free silently
// ignores nil, out-of-bounds, misaligned, and already-free refs; the
// drops are counted in Stats and logged when MEMKIT_LOG_ALLOC is set.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize
// access externally; no operation tolerates interleaving.
//
// # Related Packages
//
//   - github.com/joshuapare/memkit/arena: the raw memory supplier
//   - github.com/joshuapare/memkit/verify: invariant checks over a live heap
//   - github.com/joshuapare/memkit/printer: human-readable heap reports
package alloc
