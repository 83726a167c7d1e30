// Package reservoir provides a bounded, thread-safe object pool whose
// objects are shared across goroutines through reference-counted handles.
// It targets allocation-heavy workloads where objects are expensive to
// build and cheap to reset, and where an unbounded sync.Pool would let
// memory usage drift with load.
//
// Reservoir keeps three promises that sync.Pool does not:
//   - The live population never exceeds a fixed bound
//   - Objects are reset exactly once between uses
//   - A checked-out object can be shared, mutated exclusively, or
//     permanently withdrawn, with the pool tracking each outcome
//
// # Architecture
//
// Reservoir is built on three cooperating pieces:
//
// 1. Bounded population: an atomic counter tracks every object the pool
// has created and not yet discarded. Growth claims a slot before
// constructing, so the bound holds under any interleaving.
//
// 2. Lock-free reclamation: released objects re-enter circulation through
// an MPMC ring buffer sized to the pool bound, so checkout and return
// never take a lock.
//
// 3. Reference-counted handles: every checkout returns a handle. Clones
// share the object read-only across goroutines; mutation requires sole
// ownership; the last release recycles (or vacates) the slot.
//
// # Quick Start
//
// Maintain a bounded population of reusable line buffers:
//
//	import (
//	    "github.com/ajitpratap0/reservoir/pkg/pool"
//	)
//
//	// 64 buffers up front, growing to at most 1024
//	lines := pool.New(64, 1024, pool.SliceFactory[string](256))
//
//	h, ok := lines.TryAcquire()
//	if !ok {
//	    // Pool at capacity with nothing circulating; shed load here.
//	    return
//	}
//	defer h.Release()
//
//	if batch, exclusive := h.Exclusive(); exclusive {
//	    batch.Items = append(batch.Items, "hello")
//	}
//
// Share a checkout with another goroutine:
//
//	clone := h.Clone()
//	go func() {
//	    defer clone.Release()
//	    process(clone.Value().Items)
//	}()
//
// # Key Packages
//
//	pkg/pool      - Bounded pool, handles, and recyclable adapters
//	pkg/config    - YAML settings and pool construction from config
//	pkg/json      - JSON helpers staged through pooled buffers
//	pkg/errors    - Structured error handling
//	pkg/logger    - High-performance structured logging
//	pkg/metrics   - Prometheus metrics collection
//	pkg/lockfree  - MPMC queue and padded counters under the pool
//	pkg/strings   - Pooled string building utilities
//
// # Command Line
//
// The reservoir binary stress-tests pools and demonstrates the handle
// lifecycle:
//
//	reservoir bench --workers 8 --duration 30s --max 1024
//	reservoir demo
//	reservoir version
//
// Bench compares pooled operation against a fresh-allocation baseline and
// reports throughput, acquire latency percentiles, pool statistics, and
// process resource usage as JSON.
//
// # Configuration
//
// Pools can be defined in YAML and built by name:
//
//	pools:
//	  - name: frames
//	    initial_capacity: 64
//	    max_capacity: 1024
//	    object_capacity: 65536
//	    metrics: true
//
//	cfg, _ := settings.Pool("frames")
//	frames, err := config.NewPool(cfg, pool.BufferFactory(cfg.ObjectCapacity))
package reservoir
