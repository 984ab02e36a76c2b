package alloc

import "github.com/joshuapare/memkit/internal/format"

// split carves req bytes off the front of free block b and marks the
// prefix used. Returns the block size actually consumed: req when the
// remainder is big enough to stand alone as a free block, the whole
// block otherwise.
//
// On return the consumed region is marked used and off the free list;
// any remainder is a well-formed free block occupying b's old position
// in the list.
func (a *Allocator) split(b Ref, req uint64) uint64 {
	t := a.tag(b)
	total := t.Size()

	if total-req >= format.MinBlockSize {
		a.stats.SplitCount++

		// Used prefix: header-only write, inheriting the preceding-used
		// flag from the original block.
		a.writeTag(b, format.PackTag(req, true, t.PrecedingUsed()))

		// Free remainder. Its predecessor is the prefix we just marked
		// used.
		rem := b + req
		a.writeFreeBlock(rem, format.PackTag(total-req, false, true))

		// The remainder's address differs from b's, so the raw list
		// links must be repointed, not mutated in place.
		a.relink(b, rem)
		return req
	}

	// Too small to split: consume the block whole and tell the
	// following block its predecessor is now used.
	a.writeTag(b, t.WithUsed(true))
	a.setPrecedingUsed(b+total, true)
	a.remove(b)
	return total
}
