package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/printer"
	"github.com/joshuapare/memkit/verify"
	"github.com/spf13/cobra"
)

var (
	stressOps      int
	stressMaxSize  int
	stressHold     int
	stressSeed     int64
	stressPageSize int
	stressLimit    int
	stressMmap     bool
	stressVerify   bool
	stressBlocks   bool
	stressMaxBlk   int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of alloc/free operations")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 4096, "Maximum allocation size in bytes")
	cmd.Flags().IntVar(&stressHold, "hold", 1000, "Target number of live allocations")
	cmd.Flags().Int64Var(&stressSeed, "seed", 0, "Workload seed (0 uses the clock)")
	cmd.Flags().IntVar(&stressPageSize, "page-size", arena.DefaultPageSize, "Arena growth granularity")
	cmd.Flags().IntVar(&stressLimit, "limit", 0, "Arena size cap in bytes (0 = unbounded)")
	cmd.Flags().BoolVar(&stressMmap, "mmap", false, "Back the heap with an mmap arena")
	cmd.Flags().BoolVar(&stressVerify, "verify", false, "Re-check every heap invariant after each operation (slow)")
	cmd.Flags().BoolVar(&stressBlocks, "show-blocks", false, "Print the heap map after the run")
	cmd.Flags().IntVar(&stressMaxBlk, "max-blocks", 64, "Cap the heap map length (0 = no cap)")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized alloc/free workload and report heap state",
		Long: `The stress command drives a heap through a randomized mix of
allocations and frees, holding a bounded working set live, then reports the
allocator counters and the final heap shape.

Example:
  memstress stress --ops 1000000 --max-size 8192
  memstress stress --mmap --limit 67108864
  memstress stress --verify --ops 10000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

func buildArena() (arena.Arena, error) {
	if stressMmap {
		limit := stressLimit
		if limit == 0 {
			limit = 1 << 30
		}
		printVerbose("Reserving %d-byte mmap arena\n", limit)
		m, err := arena.NewMmap(limit)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	if stressLimit > 0 {
		return arena.NewSliceWithLimit(stressPageSize, stressLimit), nil
	}
	return arena.NewSlice(stressPageSize), nil
}

func runStress() error {
	seed := stressSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	printVerbose("Workload seed: %d\n", seed)

	mem, err := buildArena()
	if err != nil {
		return fmt.Errorf("failed to build arena: %w", err)
	}
	defer mem.Release()

	var opts []alloc.Option
	if stressVerify {
		opts = append(opts, alloc.WithCheckHook(verify.AllInvariants))
	}
	a, err := alloc.New(mem, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize heap: %w", err)
	}

	live := make([]alloc.Ref, 0, stressHold)
	start := time.Now()

	for i := 0; i < stressOps; i++ {
		if len(live) < stressHold && (len(live) == 0 || rng.Intn(2) == 0) {
			ref, _, err := a.Alloc(uint64(1 + rng.Intn(stressMaxSize)))
			if err != nil {
				return fmt.Errorf("allocation failed after %d operations: %w", i, err)
			}
			live = append(live, ref)
		} else {
			k := rng.Intn(len(live))
			a.Free(live[k])
			live[k] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
	elapsed := time.Since(start)

	if jsonOut {
		return printJSON(struct {
			Seed      int64
			Ops       int
			ElapsedNs int64
			Live      int
			Stats     alloc.Stats
			Heap      alloc.FragStats
		}{seed, stressOps, elapsed.Nanoseconds(), len(live), a.Stats(), a.Fragmentation()})
	}

	printInfo("%d operations in %v (%.0f ops/sec), %d allocations live\n\n",
		stressOps, elapsed, float64(stressOps)/elapsed.Seconds(), len(live))
	return printer.Report(os.Stdout, a, printer.Options{
		ShowBlocks: stressBlocks,
		MaxBlocks:  stressMaxBlk,
	})
}
