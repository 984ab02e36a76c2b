package printer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/printer"
)

func newReportHeap(t *testing.T) *alloc.Allocator {
	t.Helper()
	a, err := alloc.New(arena.NewSlice(4096))
	require.NoError(t, err)
	return a
}

func TestReportSummary(t *testing.T) {
	a := newReportHeap(t)
	refs := make([]alloc.Ref, 0, 4)
	for i := 0; i < 4; i++ {
		ref, _, err := a.Alloc(256)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	a.Free(refs[1])

	var buf bytes.Buffer
	require.NoError(t, printer.Report(&buf, a, printer.Options{}))
	out := buf.String()

	require.Contains(t, out, "heap size:")
	require.Contains(t, out, "used:           3 blocks")
	require.Contains(t, out, "allocs/frees:   4 / 1 (0 invalid frees)")
	require.Contains(t, out, "grows:")
	require.NotContains(t, out, "offset", "heap map rendered without ShowBlocks")
}

func TestReportGroupsLargeNumbers(t *testing.T) {
	a := newReportHeap(t)
	_, _, err := a.Alloc(2 << 20)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printer.Report(&buf, a, printer.Options{}))

	// A multi-megabyte heap renders with digit grouping.
	require.Contains(t, buf.String(), "2,097,")
}

func TestReportHeapMap(t *testing.T) {
	a := newReportHeap(t)
	refs := make([]alloc.Ref, 0, 3)
	for i := 0; i < 3; i++ {
		ref, _, err := a.Alloc(64)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	a.Free(refs[1])

	var buf bytes.Buffer
	require.NoError(t, printer.Report(&buf, a, printer.Options{ShowBlocks: true}))
	out := buf.String()

	require.Contains(t, out, "offset")
	require.Contains(t, out, "used")
	require.Contains(t, out, "free")

	// One line per block: three allocations, one freed, plus the free
	// tail left by the split.
	var blocks int
	a.Walk(func(alloc.Block) bool { blocks++; return true })
	mapLines := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "0x") {
			mapLines++
		}
	}
	require.Equal(t, blocks, mapLines)
}

func TestReportHeapMapTruncation(t *testing.T) {
	a := newReportHeap(t)
	for i := 0; i < 8; i++ {
		_, _, err := a.Alloc(64)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, printer.Report(&buf, a, printer.Options{ShowBlocks: true, MaxBlocks: 2}))
	out := buf.String()

	require.Contains(t, out, "... (truncated)")
	mapLines := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "0x") {
			mapLines++
		}
	}
	require.Equal(t, 2, mapLines)
}
