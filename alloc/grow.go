package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/memkit/internal/format"
)

// grow extends the arena by whole pages sufficient for need bytes,
// formats the fresh region as one free block, and coalesces it with
// whatever sat at the old top of heap.
//
// The new block begins where the old sentinel word sat; that word's
// preceding-used bit still describes the block below it, so a free
// block at the old top is recognized and absorbed. A fresh sentinel is
// planted at the new top.
func (a *Allocator) grow(need uint64) error {
	pageSize := uint64(a.mem.PageSize())
	pages := (need + pageSize - 1) / pageSize
	total := pages * pageSize

	start, err := a.mem.Grow(int(total))
	if err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[GROW] arena refused %d bytes: %v\n", total, err)
		}
		return fmt.Errorf("%w: grow by %d bytes: %v", ErrNoSpace, total, err)
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(total)

	b := Ref(start) - format.WordSize
	inherited := a.tag(b).PrecedingUsed()
	a.writeFreeBlock(b, format.PackTag(total, false, inherited))

	// New sentinel at the new top of heap. Its preceding-used bit is
	// clear: the block below it is the one we just formatted free.
	a.writeTag(b+total, format.PackTag(0, true, false))

	a.insert(b)
	a.coalesce(b)
	return nil
}
