package alloc

import "github.com/joshuapare/memkit/internal/format"

// coalesce merges b with any immediately adjacent free blocks in both
// address directions, restoring the invariant that no two free blocks
// are ever adjacent. b must already be on the free list with a valid
// header and footer.
//
// Runs in O(k) where k is the number of blocks absorbed. When nothing
// is adjacent and free, the heap is left untouched.
func (a *Allocator) coalesce(b Ref) {
	origSize := a.tag(b).Size()
	newSize := origSize

	// Backward pass: while the cursor's predecessor is free, read its
	// size from the footer one word below, hop back to its header, and
	// absorb it.
	cursor := b
	for !a.tag(cursor).PrecedingUsed() {
		psize := format.ReadTag(a.bytes(), int(cursor)-format.WordSize).Size()
		pred := cursor - psize
		a.remove(pred)
		newSize += psize
		cursor = pred
		a.stats.CoalesceBackward++
	}
	merged := cursor

	// Forward pass: absorb free blocks above until a used header. The
	// end sentinel reads as used with size zero, so the scan terminates
	// there without a special case.
	cursor = b + origSize
	for !a.tag(cursor).Used() {
		size := a.tag(cursor).Size()
		a.remove(cursor)
		newSize += size
		cursor += size
		a.stats.CoalesceForward++
	}

	if newSize == origSize {
		return
	}

	// The old identities are gone; one block spans the merged region.
	// Its predecessor must be used, or the backward pass would have
	// absorbed it too.
	a.remove(b)
	a.writeFreeBlock(merged, format.PackTag(newSize, false, true))
	a.insert(merged)
}
