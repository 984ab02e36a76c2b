package verify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/verify"
)

// scatteredHeap builds a heap with used and free blocks interleaved:
//
//	[A used][B free][C used][D free][E used][tail free][sentinel]
//
// and returns the allocator plus the block offsets in address order.
func scatteredHeap(t *testing.T) (*alloc.Allocator, []alloc.Ref) {
	t.Helper()
	a, err := alloc.New(arena.NewSlice(4096))
	require.NoError(t, err)

	refs := make([]alloc.Ref, 5)
	for i := range refs {
		ref, _, err := a.Alloc(16)
		require.NoError(t, err)
		refs[i] = ref
	}
	a.Free(refs[1])
	a.Free(refs[3])

	blocks := make([]alloc.Ref, 0, 6)
	a.Walk(func(b alloc.Block) bool {
		blocks = append(blocks, b.Off)
		return true
	})
	require.Len(t, blocks, 6)
	return a, blocks
}

func requireDetected(t *testing.T, err error, wantType string) {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*verify.ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	require.Equal(t, wantType, verr.Type)
	require.NotEmpty(t, verr.Error())
}

func TestCleanHeapPassesAllInvariants(t *testing.T) {
	a, _ := scatteredHeap(t)
	require.NoError(t, verify.AllInvariants(a))
}

func TestFreshHeapPassesAllInvariants(t *testing.T) {
	a, err := alloc.New(arena.NewSlice(4096))
	require.NoError(t, err)
	require.NoError(t, verify.AllInvariants(a))
}

func TestDetectsIllegalBlockSize(t *testing.T) {
	a, blocks := scatteredHeap(t)
	data := a.Bytes()

	// Shrink used block C below the minimum block size.
	c := blocks[2]
	tag := format.ReadTag(data, int(c))
	format.PutTag(data, int(c), format.PackTag(format.WordSize, tag.Used(), tag.PrecedingUsed()))

	requireDetected(t, verify.BlockAlignment(a), "BlockAlignment")
}

func TestDetectsFooterMismatch(t *testing.T) {
	a, blocks := scatteredHeap(t)
	data := a.Bytes()

	// Stomp free block B's footer, the word just below block C.
	b := blocks[1]
	size := format.ReadTag(data, int(b)).Size()
	format.PutU64(data, int(b+size)-format.WordSize, 0xDEADBEEF)

	requireDetected(t, verify.BoundaryTags(a), "BoundaryTags")
}

func TestDetectsPrecedingUsedMismatch(t *testing.T) {
	a, blocks := scatteredHeap(t)
	data := a.Bytes()

	// Block C sits above free block B but claims a used neighbor.
	c := blocks[2]
	tag := format.ReadTag(data, int(c))
	format.PutTag(data, int(c), tag.WithPrecedingUsed(true))

	requireDetected(t, verify.BoundaryTags(a), "BoundaryTags")
}

func TestDetectsMalformedSentinel(t *testing.T) {
	a, _ := scatteredHeap(t)
	data := a.Bytes()

	off := int(a.HeapSize()) - format.WordSize
	tag := format.ReadTag(data, off)
	format.PutTag(data, off, tag.WithUsed(false))

	requireDetected(t, verify.BoundaryTags(a), "BoundaryTags")
}

func TestDetectsAdjacentFreeBlocks(t *testing.T) {
	a, blocks := scatteredHeap(t)
	data := a.Bytes()

	// Flip used block C free in its header. B and C now read as two
	// adjacent free blocks.
	c := blocks[2]
	tag := format.ReadTag(data, int(c))
	format.PutTag(data, int(c), tag.WithUsed(false))

	requireDetected(t, verify.Adjacency(a), "Adjacency")
}

func TestDetectsOrphanFreeBlock(t *testing.T) {
	a, blocks := scatteredHeap(t)
	data := a.Bytes()

	// Flip used block E free without inserting it into the list. Its
	// neighbors are used, so only the list accounting notices.
	e := blocks[4]
	tag := format.ReadTag(data, int(e)).WithUsed(false)
	format.PutTag(data, int(e), tag)
	format.PutTag(data, int(e+tag.Size())-format.WordSize, tag)

	requireDetected(t, verify.FreeList(a), "FreeList")
}

func TestDetectsBrokenPrevLink(t *testing.T) {
	a, _ := scatteredHeap(t)
	data := a.Bytes()

	refs := a.FreeRefs()
	require.GreaterOrEqual(t, len(refs), 2)

	// Point the second list entry's prev link at garbage.
	format.PutU64(data, int(refs[1])+format.PrevOffset, 0x1000)

	requireDetected(t, verify.FreeList(a), "FreeList")
}

func TestDetectsListEntryThatIsNotFree(t *testing.T) {
	a, blocks := scatteredHeap(t)
	data := a.Bytes()

	// Mark free block D used in its header; the list still names it.
	d := blocks[3]
	tag := format.ReadTag(data, int(d))
	format.PutTag(data, int(d), tag.WithUsed(true))

	requireDetected(t, verify.FreeList(a), "FreeList")
}
