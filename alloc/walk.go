package alloc

// Block describes one heap block as seen by the walker.
type Block struct {
	Off           Ref    // arena offset of the block header
	Size          uint64 // total block size, header included
	Used          bool
	PrecedingUsed bool
}

// Walk visits every block in address order, bottom of heap first,
// stopping at the end sentinel (which is not visited). fn returning
// false ends the walk early.
//
// The walk is a full linear scan, not incremental; keep it to tests,
// debug hooks, and diagnostic tooling.
func (a *Allocator) Walk(fn func(Block) bool) {
	end := Ref(a.mem.Size())
	for off := a.base; off < end; {
		t := a.tag(off)
		if t.Size() == 0 {
			return // sentinel
		}
		blk := Block{
			Off:           off,
			Size:          t.Size(),
			Used:          t.Used(),
			PrecedingUsed: t.PrecedingUsed(),
		}
		if !fn(blk) {
			return
		}
		off += t.Size()
	}
}

// Fragmentation walks the heap and summarizes its occupancy.
func (a *Allocator) Fragmentation() FragStats {
	fs := FragStats{HeapBytes: a.HeapSize()}
	a.Walk(func(b Block) bool {
		if b.Used {
			fs.UsedBlocks++
			fs.UsedBytes += b.Size
		} else {
			fs.FreeBlocks++
			fs.FreeBytes += b.Size
			if b.Size > fs.LargestFree {
				fs.LargestFree = b.Size
			}
		}
		return true
	})
	if fs.FreeBytes > 0 {
		fs.External = 1 - float64(fs.LargestFree)/float64(fs.FreeBytes)
	}
	return fs
}
