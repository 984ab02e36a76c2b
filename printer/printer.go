// Package printer renders human-readable heap reports.
//
// Reports are plain text written to an io.Writer: a summary of the
// allocator counters and occupancy, optionally followed by a per-block
// heap map. Byte counts are grouped for readability ("1,048,576").
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/alloc"
)

// Options controls report rendering.
type Options struct {
	// ShowBlocks includes the per-block heap map after the summary.
	ShowBlocks bool

	// MaxBlocks caps the heap map length; 0 means no cap. When the cap
	// is hit, a truncation line is emitted.
	MaxBlocks int
}

// Report writes a heap summary (and, per opts, a heap map) for a.
func Report(w io.Writer, a *alloc.Allocator, opts Options) error {
	p := message.NewPrinter(language.English)
	st := a.Stats()
	fs := a.Fragmentation()

	if _, err := p.Fprintf(w, "heap size:      %d bytes\n", fs.HeapBytes); err != nil {
		return err
	}
	p.Fprintf(w, "used:           %d blocks, %d bytes\n", fs.UsedBlocks, fs.UsedBytes)
	p.Fprintf(w, "free:           %d blocks, %d bytes (largest %d)\n",
		fs.FreeBlocks, fs.FreeBytes, fs.LargestFree)
	p.Fprintf(w, "fragmentation:  %.1f%%\n", fs.External*100)
	p.Fprintf(w, "allocs/frees:   %d / %d (%d invalid frees)\n",
		st.AllocCalls, st.FreeCalls, st.InvalidFrees)
	p.Fprintf(w, "grows:          %d (%d bytes)\n", st.GrowCalls, st.GrowBytes)
	p.Fprintf(w, "splits:         %d, coalesces: %d fwd / %d back\n",
		st.SplitCount, st.CoalesceForward, st.CoalesceBackward)

	if !opts.ShowBlocks {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  offset          size  state")
	shown := 0
	truncated := false
	a.Walk(func(b alloc.Block) bool {
		if opts.MaxBlocks > 0 && shown >= opts.MaxBlocks {
			truncated = true
			return false
		}
		state := "free"
		if b.Used {
			state = "used"
		}
		p.Fprintf(w, "  %#08x  %10d  %s\n", b.Off, b.Size, state)
		shown++
		return true
	})
	if truncated {
		fmt.Fprintln(w, "  ... (truncated)")
	}
	return nil
}
