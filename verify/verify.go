// Package verify provides consistency checks over a live heap.
// These helpers are used in tests (and debug check hooks) to ensure
// allocator invariants are maintained after every operation.
package verify

import (
	"fmt"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/internal/format"
)

// ValidationError describes a failed invariant check.
type ValidationError struct {
	Type    string
	Message string
	Offset  int64 // arena offset where the error was detected, -1 if N/A
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every heap invariant in one call. Returns the
// first error encountered, or nil if all checks pass.
//
// Its signature matches alloc.WithCheckHook, so tests can run it after
// every mutation:
//
//	a, err := alloc.New(mem, alloc.WithCheckHook(verify.AllInvariants))
func AllInvariants(a *alloc.Allocator) error {
	if err := BlockAlignment(a); err != nil {
		return err
	}
	if err := BoundaryTags(a); err != nil {
		return err
	}
	if err := Adjacency(a); err != nil {
		return err
	}
	if err := FreeList(a); err != nil {
		return err
	}
	return nil
}

// BlockAlignment checks that every block starts on an alignment
// boundary and has an alignment-multiple size of at least the minimum
// block size.
func BlockAlignment(a *alloc.Allocator) error {
	var verr error
	a.Walk(func(b alloc.Block) bool {
		if !format.Aligned(b.Off) {
			verr = &ValidationError{
				Type:    "BlockAlignment",
				Message: fmt.Sprintf("block offset not %d-byte aligned", format.Alignment),
				Offset:  int64(b.Off),
			}
			return false
		}
		if !format.Aligned(b.Size) || b.Size < format.MinBlockSize {
			verr = &ValidationError{
				Type:    "BlockAlignment",
				Message: fmt.Sprintf("illegal block size %d", b.Size),
				Offset:  int64(b.Off),
				Details: map[string]interface{}{"size": b.Size},
			}
			return false
		}
		return true
	})
	return verr
}

// BoundaryTags checks that every free block's footer is bit-identical
// to its header, that each block's preceding-used flag agrees with the
// actual status of the block below it, and that the walk ends at a
// well-formed sentinel word.
func BoundaryTags(a *alloc.Allocator) error {
	data := a.Bytes()
	var verr error

	prevUsed := true // nothing precedes the first block
	end := a.Base()

	a.Walk(func(b alloc.Block) bool {
		if b.PrecedingUsed != prevUsed {
			verr = &ValidationError{
				Type:    "BoundaryTags",
				Message: "preceding-used flag disagrees with the block below",
				Offset:  int64(b.Off),
				Details: map[string]interface{}{
					"flag":   b.PrecedingUsed,
					"actual": prevUsed,
				},
			}
			return false
		}
		if !b.Used {
			header := format.ReadTag(data, int(b.Off))
			footer := format.ReadTag(data, int(b.Off+b.Size)-format.WordSize)
			if header != footer {
				verr = &ValidationError{
					Type:    "BoundaryTags",
					Message: "free block header and footer differ",
					Offset:  int64(b.Off),
					Details: map[string]interface{}{
						"header": uint64(header),
						"footer": uint64(footer),
					},
				}
				return false
			}
		}
		prevUsed = b.Used
		end = b.Off + b.Size
		return true
	})
	if verr != nil {
		return verr
	}

	// The word the walk stopped at must be the sentinel: used, size
	// zero, sitting in the arena's final word.
	if uint64(end)+format.WordSize != a.HeapSize() {
		return &ValidationError{
			Type:    "BoundaryTags",
			Message: "heap walk did not end one word below the arena top",
			Offset:  int64(end),
			Details: map[string]interface{}{"heapSize": a.HeapSize()},
		}
	}
	sentinel := format.ReadTag(data, int(end))
	if !sentinel.Used() || sentinel.Size() != 0 {
		return &ValidationError{
			Type:    "BoundaryTags",
			Message: "malformed end sentinel",
			Offset:  int64(end),
			Details: map[string]interface{}{"tag": uint64(sentinel)},
		}
	}
	if sentinel.PrecedingUsed() != prevUsed {
		return &ValidationError{
			Type:    "BoundaryTags",
			Message: "sentinel preceding-used flag disagrees with the last block",
			Offset:  int64(end),
		}
	}
	return nil
}

// Adjacency checks the immediate-coalescing invariant: no two free
// blocks adjacent in address order.
func Adjacency(a *alloc.Allocator) error {
	var verr error
	prevFree := false
	a.Walk(func(b alloc.Block) bool {
		if !b.Used && prevFree {
			verr = &ValidationError{
				Type:    "Adjacency",
				Message: "two adjacent free blocks",
				Offset:  int64(b.Off),
			}
			return false
		}
		prevFree = !b.Used
		return true
	})
	return verr
}

// FreeList checks that the free list contains exactly the set of free
// blocks, each once, with symmetric next/prev links.
func FreeList(a *alloc.Allocator) error {
	freeBlocks := make(map[alloc.Ref]bool)
	blockCount := 0
	a.Walk(func(b alloc.Block) bool {
		if !b.Used {
			freeBlocks[b.Off] = true
		}
		blockCount++
		return true
	})

	data := a.Bytes()
	seen := make(map[alloc.Ref]bool)
	prev := alloc.Ref(format.InvalidRef)

	refs := a.FreeRefs()
	// A corrupted list can cycle; the walk bounds how long it may be.
	if len(refs) > blockCount {
		return &ValidationError{
			Type:    "FreeList",
			Message: fmt.Sprintf("list has %d entries but the heap has %d blocks", len(refs), blockCount),
			Offset:  -1,
		}
	}

	for _, b := range refs {
		if seen[b] {
			return &ValidationError{
				Type:    "FreeList",
				Message: "block appears in the free list twice",
				Offset:  int64(b),
			}
		}
		seen[b] = true

		if !freeBlocks[b] {
			return &ValidationError{
				Type:    "FreeList",
				Message: "list entry is not a free block",
				Offset:  int64(b),
			}
		}

		if got := format.ReadU64(data, int(b)+format.PrevOffset); got != prev {
			return &ValidationError{
				Type:    "FreeList",
				Message: "asymmetric prev link",
				Offset:  int64(b),
				Details: map[string]interface{}{"got": got, "want": prev},
			}
		}
		prev = b
	}

	if len(seen) != len(freeBlocks) {
		return &ValidationError{
			Type:    "FreeList",
			Message: fmt.Sprintf("%d free blocks on the heap, %d on the list", len(freeBlocks), len(seen)),
			Offset:  -1,
		}
	}
	return nil
}
