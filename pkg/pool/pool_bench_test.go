package pool_test

import (
	"testing"

	"github.com/ajitpratap0/reservoir/pkg/pool"
)

// benchSliceCapacity matches a workload where each object carries a
// large pre-grown buffer, which is where recycling pays off most.
const benchSliceCapacity = 500_000

// BenchmarkAcquireRelease measures the pooled round trip. Compare with
// BenchmarkFreshAllocation to see the recycling payoff.
func BenchmarkAcquireRelease(b *testing.B) {
	p := pool.New(4, 64, pool.SliceFactory[int](benchSliceCapacity),
		pool.WithName("bench-roundtrip"),
	)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h := p.Acquire()
		if s, ok := h.Exclusive(); ok {
			s.Items = append(s.Items, i)
		}
		h.Release()
	}
}

// BenchmarkFreshAllocation is the baseline: the same object built from
// scratch on every iteration.
func BenchmarkFreshAllocation(b *testing.B) {
	var sink *pool.Slice[int]

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := pool.NewSlice[int](benchSliceCapacity)
		s.Items = append(s.Items, i)
		sink = s
	}
	_ = sink
}

func BenchmarkAcquireReleaseParallel(b *testing.B) {
	p := pool.New(4, 16, pool.SliceFactory[int](benchSliceCapacity),
		pool.WithName("bench-parallel"),
	)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, ok := p.TryAcquire()
			if !ok {
				continue
			}
			h.Release()
		}
	})
}

func BenchmarkCloneRelease(b *testing.B) {
	p := pool.New(1, 1, pool.BufferFactory(4096),
		pool.WithName("bench-clone"),
	)
	h := p.Acquire()
	defer h.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clone := h.Clone()
		clone.Release()
	}
}

func BenchmarkTryAcquireExhausted(b *testing.B) {
	p := pool.New(0, 1, pool.BufferFactory(64),
		pool.WithName("bench-exhausted"),
	)
	held := p.Acquire()
	defer held.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := p.TryAcquire(); ok {
			b.Fatal("pool should be exhausted")
		}
	}
}
