package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/internal/format"
)

// Runtime debug flag for allocation logging - controlled by the
// MEMKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// Allocator is the heap context: the arena under management plus the
// free-list head. There is no package-level state; independent heaps
// are just independent Allocator values over independent arenas.
//
// NOT thread-safe. Only one goroutine may use it at a time.
type Allocator struct {
	mem  arena.Arena
	base Ref // arena offset of the first block
	head Ref // free-list head, InvalidRef when the list is empty

	stats Stats

	// Consistency hook run after every mutation (nil in production).
	check func(*Allocator) error
}

// Option configures an Allocator at construction time.
type Option func(*Allocator)

// WithCheckHook installs fn to run after every Alloc and Free; a
// non-nil return panics. The hook is a full heap walk, so wire it
// (typically to verify.AllInvariants) in tests and debug builds only.
func WithCheckHook(fn func(*Allocator) error) Option {
	return func(a *Allocator) { a.check = fn }
}

// New initializes a heap over mem and returns the allocator context.
// The initial arena request carves one minimal free block and plants
// the end sentinel above it.
func New(mem arena.Arena, opts ...Option) (*Allocator, error) {
	a := &Allocator{
		mem:  mem,
		head: format.InvalidRef,
	}
	for _, opt := range opts {
		opt(a)
	}

	start, err := mem.Grow(format.MinBlockSize + format.WordSize)
	if err != nil {
		return nil, fmt.Errorf("alloc: initial arena request: %w", err)
	}
	a.base = Ref(start)

	// One free block spanning the starting arena. Nothing precedes it,
	// which reads as "preceding used" so the coalescer never walks off
	// the low end.
	first := a.base
	a.writeFreeBlock(first, format.PackTag(format.MinBlockSize, false, true))
	a.setNext(first, format.InvalidRef)
	a.setPrev(first, format.InvalidRef)

	// End sentinel: used, size zero. Its preceding-used bit is clear
	// because the block below it is free.
	a.writeTag(first+format.MinBlockSize, format.PackTag(0, true, false))

	a.head = first
	return a, nil
}

// Alloc returns a ref to, and the byte slice of, a payload of at least
// size bytes. The payload address is always a multiple of the alignment
// unit. A size of zero returns NoRef and a nil slice with no state
// change.
func (a *Allocator) Alloc(size uint64) (Ref, []byte, error) {
	if size == 0 {
		return NoRef, nil, nil
	}
	a.stats.AllocCalls++

	// Inflate by the header word, round to alignment, clamp to the
	// minimum block size.
	req := size + format.WordSize
	if req <= format.MinBlockSize {
		req = format.MinBlockSize
	} else {
		req = format.AlignUp(req)
	}

	for {
		b, ok := a.search(req)
		if !ok {
			if err := a.grow(req); err != nil {
				return NoRef, nil, err
			}
			continue
		}

		used := a.split(b, req)
		a.stats.BytesAllocated += int64(used)
		a.runChecks()

		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] %d bytes -> block %#x (%d total)\n", size, b, used)
		}

		// Used blocks carry no footer: the payload runs to the end of
		// the block.
		payload := a.bytes()[b+format.WordSize : b+used]
		return b + format.WordSize, payload, nil
	}
}

// Free returns the allocation at ref to the heap and coalesces it with
// any free neighbors. Nil, out-of-bounds, misaligned, and already-free
// refs are silently ignored, matching the free(NULL) contract, but the
// drop is counted in Stats.InvalidFrees and logged under
// MEMKIT_LOG_ALLOC.
func (a *Allocator) Free(ref Ref) {
	a.stats.FreeCalls++

	if !a.validUsedRef(ref) {
		a.stats.InvalidFrees++
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[FREE] ignored invalid ref %#x\n", ref)
		}
		return
	}

	b := ref - format.WordSize
	t := a.tag(b)
	size := t.Size()
	a.stats.BytesFreed += int64(size)

	// Clear the used flag; the block is free again and regains its
	// footer. The following block's preceding-used bit goes down with
	// it.
	a.writeFreeBlock(b, t.WithUsed(false))
	a.setPrecedingUsed(b+size, false)

	a.insert(b)
	a.coalesce(b)
	a.runChecks()
}

// Payload returns the byte slice for a live allocation ref, or
// ErrBadRef if the ref does not name a used block.
func (a *Allocator) Payload(ref Ref) ([]byte, error) {
	if !a.validUsedRef(ref) {
		return nil, ErrBadRef
	}
	b := ref - format.WordSize
	return a.bytes()[ref : b+a.tag(b).Size()], nil
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Bytes returns the live arena backing slice. Invalidated by any call
// that can grow the heap.
func (a *Allocator) Bytes() []byte { return a.mem.Bytes() }

// Base returns the arena offset of the first block.
func (a *Allocator) Base() Ref { return a.base }

// HeapSize returns the current arena extent in bytes, including the
// end sentinel word.
func (a *Allocator) HeapSize() uint64 { return uint64(a.mem.Size()) }

// validUsedRef reports whether ref names a used block inside the heap.
// The sentinel sits one word past the last block, so any ref at or
// beyond the arena size is rejected before its tag is read.
func (a *Allocator) validUsedRef(ref Ref) bool {
	if ref == NoRef {
		return false
	}
	if !format.Aligned(ref) {
		return false
	}
	if ref < a.base+format.WordSize || ref >= Ref(a.mem.Size()) {
		return false
	}
	t := a.tag(ref - format.WordSize)
	if !t.Used() || t.Size() == 0 {
		return false
	}
	if ref-format.WordSize+t.Size() > Ref(a.mem.Size()) {
		return false
	}
	return true
}

func (a *Allocator) runChecks() {
	if a.check == nil {
		return
	}
	if err := a.check(a); err != nil {
		panic(fmt.Sprintf("alloc: consistency check failed: %v", err))
	}
}

// ----------------------------------------------------------------------------
// Tag access
// ----------------------------------------------------------------------------

func (a *Allocator) bytes() []byte { return a.mem.Bytes() }

func (a *Allocator) tag(b Ref) format.Tag {
	return format.ReadTag(a.bytes(), int(b))
}

// writeTag writes the header word only. This is the only legal write
// for used blocks and the sentinel: their footer slot is payload (or
// past the arena).
func (a *Allocator) writeTag(b Ref, t format.Tag) {
	format.PutTag(a.bytes(), int(b), t)
}

// writeFreeBlock writes the header and mirrors it into the trailing
// footer. Only valid for free blocks of at least the minimum size.
func (a *Allocator) writeFreeBlock(b Ref, t format.Tag) {
	buf := a.bytes()
	format.PutTag(buf, int(b), t)
	format.PutTag(buf, int(b+t.Size())-format.WordSize, t)
}

// setPrecedingUsed updates the preceding-used flag on the block at b,
// mirroring into the footer only when b is free. Used blocks and the
// sentinel take a header-only write.
func (a *Allocator) setPrecedingUsed(b Ref, used bool) {
	t := a.tag(b).WithPrecedingUsed(used)
	if !t.Used() && t.Size() != 0 {
		a.writeFreeBlock(b, t)
		return
	}
	a.writeTag(b, t)
}
