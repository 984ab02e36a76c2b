package alloc

import "github.com/joshuapare/memkit/internal/format"

// Intrusive doubly-linked free list, threaded through the free blocks'
// own memory. The two words after a free block's header hold the next
// and prev refs; InvalidRef terminates the list in both directions.
// "Next" and "prev" are list order, not address order.

func (a *Allocator) next(b Ref) Ref {
	return format.ReadU64(a.bytes(), int(b)+format.NextOffset)
}

func (a *Allocator) prev(b Ref) Ref {
	return format.ReadU64(a.bytes(), int(b)+format.PrevOffset)
}

func (a *Allocator) setNext(b, next Ref) {
	format.PutU64(a.bytes(), int(b)+format.NextOffset, next)
}

func (a *Allocator) setPrev(b, prev Ref) {
	format.PutU64(a.bytes(), int(b)+format.PrevOffset, prev)
}

// insert pushes b onto the head of the free list (LIFO).
func (a *Allocator) insert(b Ref) {
	old := a.head
	a.setNext(b, old)
	a.setPrev(b, format.InvalidRef)
	if old != format.InvalidRef {
		a.setPrev(old, b)
	}
	a.head = b
}

// remove unlinks b from the free list in O(1) using the refs stored in
// the block itself.
func (a *Allocator) remove(b Ref) {
	next := a.next(b)
	prev := a.prev(b)

	if next != format.InvalidRef {
		a.setPrev(next, prev)
	}
	if b == a.head {
		a.head = next
	} else {
		a.setNext(prev, next)
	}
}

// relink replaces b with repl at b's exact position in the list: the
// neighbors (and the head, when b was the head) are repointed and b's
// links are copied over. Needed by the splitter, where the surviving
// free block changes address.
func (a *Allocator) relink(b, repl Ref) {
	next := a.next(b)
	prev := a.prev(b)

	a.setNext(repl, next)
	a.setPrev(repl, prev)
	if next != format.InvalidRef {
		a.setPrev(next, repl)
	}
	if prev != format.InvalidRef {
		a.setNext(prev, repl)
	}
	if a.head == b {
		a.head = repl
	}
}

// search scans from the head and returns the first free block whose
// size is at least req bytes (first fit).
func (a *Allocator) search(req uint64) (Ref, bool) {
	for b := a.head; b != format.InvalidRef; b = a.next(b) {
		if a.tag(b).Size() >= req {
			return b, true
		}
	}
	return format.InvalidRef, false
}

// FreeRefs returns the blocks currently on the free list in list order,
// head first. Diagnostic surface for tests and the verifier.
func (a *Allocator) FreeRefs() []Ref {
	var refs []Ref
	for b := a.head; b != format.InvalidRef; b = a.next(b) {
		refs = append(refs, b)
	}
	return refs
}
