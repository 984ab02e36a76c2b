package main

import (
	"os"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/printer"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through a small scripted workload, printing the heap at each step",
		Long: `The demo command runs a short fixed allocation sequence and prints
the heap map after each phase, showing block splitting, freeing, and
coalescing in action.

Example:
  memstress demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	a, err := alloc.New(arena.NewSlice(arena.DefaultPageSize))
	if err != nil {
		return err
	}
	opts := printer.Options{ShowBlocks: true}

	printInfo("== four allocations (note the split free tail) ==\n")
	refs := make([]alloc.Ref, 4)
	for i, n := range []uint64{100, 200, 300, 400} {
		if refs[i], _, err = a.Alloc(n); err != nil {
			return err
		}
	}
	if err := printer.Report(os.Stdout, a, opts); err != nil {
		return err
	}

	printInfo("\n== free the middle two (coalesced into one hole) ==\n")
	a.Free(refs[1])
	a.Free(refs[2])
	if err := printer.Report(os.Stdout, a, opts); err != nil {
		return err
	}

	printInfo("\n== free the rest (heap collapses to a single block) ==\n")
	a.Free(refs[0])
	a.Free(refs[3])
	return printer.Report(os.Stdout, a, opts)
}
