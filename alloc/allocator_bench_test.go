package alloc

import (
	"math/rand"
	"testing"

	"github.com/joshuapare/memkit/arena"
)

// Benchmark_Alloc_SmallBlocks benchmarks allocation of small payloads.
func Benchmark_Alloc_SmallBlocks(b *testing.B) {
	a, err := New(arena.NewSlice(1 << 16))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		size := uint64(16 + (i%64)*2) // 16-142 bytes
		_, _, allocErr := a.Alloc(size)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
	}
}

// Benchmark_AllocFree_Pair benchmarks the hot alloc-then-free cycle,
// which never grows the heap after warmup.
func Benchmark_AllocFree_Pair(b *testing.B) {
	a, err := New(arena.NewSlice(1 << 16))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ref, _, allocErr := a.Alloc(uint64(64 + (i%128)*8))
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		a.Free(ref)
	}
}

// Benchmark_Churn_MixedSizes benchmarks a steady-state workload holding
// a bounded working set live, exercising search, split, and coalesce.
func Benchmark_Churn_MixedSizes(b *testing.B) {
	a, err := New(arena.NewSlice(1 << 16))
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))

	const hold = 512
	live := make([]Ref, 0, hold)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if len(live) < hold && (len(live) == 0 || rng.Intn(2) == 0) {
			ref, _, allocErr := a.Alloc(uint64(1 + rng.Intn(1024)))
			if allocErr != nil {
				b.Fatal(allocErr)
			}
			live = append(live, ref)
		} else {
			k := rng.Intn(len(live))
			a.Free(live[k])
			live[k] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
}
