package alloc

import "github.com/joshuapare/memkit/internal/format"

// Ref is an arena-relative byte offset identifying a live allocation.
// The ref returned by Alloc points at the payload, one word past the
// block header.
type Ref = uint64

// NoRef is the nil ref, returned for zero-size requests and failed
// allocations.
const NoRef Ref = format.InvalidRef

// Stats holds internal allocator counters, maintained on every public
// operation. Useful for tests and instrumentation.
type Stats struct {
	AllocCalls       int   // Alloc calls with a non-zero size
	FreeCalls        int   // Free calls, valid or not
	InvalidFrees     int   // Free calls dropped by the handle checks
	GrowCalls        int   // arena growth requests
	GrowBytes        int64 // total bytes added via growth
	SplitCount       int   // blocks split into used prefix + free remainder
	CoalesceForward  int   // blocks absorbed by the forward pass
	CoalesceBackward int   // blocks absorbed by the backward pass
	BytesAllocated   int64 // total block bytes handed out, headers included
	BytesFreed       int64 // total block bytes returned
}

// FragStats summarizes heap occupancy, computed by a full walk.
type FragStats struct {
	HeapBytes   uint64 // total arena bytes under management
	UsedBlocks  int
	UsedBytes   uint64
	FreeBlocks  int
	FreeBytes   uint64
	LargestFree uint64

	// External is the external fragmentation ratio: 1 minus the share
	// of free bytes reachable by the single largest free block. Zero
	// when the heap has no free bytes.
	External float64
}
