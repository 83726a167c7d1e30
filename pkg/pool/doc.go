// Package pool implements a bounded, concurrency-safe object pool with
// reference-counted handles. It is the core of reservoir: reusable
// objects circulate between a lock-free reclamation queue and the
// goroutines that check them out, reducing garbage collection pressure
// in allocation-heavy hot paths.
//
// Architecture
//
// A Pool[T] owns a fixed capacity ceiling and a live population that
// starts at a configured initial size and grows on demand through a
// factory. Checked-out objects travel as reference-counted handles;
// when the last handle is released the object is reset and pushed onto
// the reclamation queue for the next acquirer. Acquisition never
// blocks: when the queue is empty and the population has reached the
// ceiling, Acquire faults immediately and TryAcquire reports failure.
//
// Core Types:
//
//   - Pool[T]: bounded pool for any type implementing Recyclable
//   - Handle[T]: reference-counted lease on a checked-out object
//   - Recyclable: single-method contract for object reset
//   - Slice, Map, Buffer: ready-made recyclable adapters
//
// Lifecycle
//
// Objects move through four states:
//
//	factory() -> checked out -> released -> queued -> checked out ...
//
// Detach removes an object from circulation permanently; the pool
// learns about the lost slot through an empty placeholder on the queue
// and shrinks its population when the placeholder is dequeued.
//
// Usage Patterns
//
// Basic acquire and release:
//
//	buffers := pool.New(8, 256, pool.BufferFactory(64*1024),
//	    pool.WithName("buffers"),
//	)
//	handle := buffers.Acquire()
//	defer handle.Release()
//
//	buf, ok := handle.Exclusive()
//	if ok {
//	    buf.B = append(buf.B, payload...)
//	}
//
// Sharing one object across goroutines:
//
//	handle := p.Acquire()
//	clone := handle.Clone()
//	go func() {
//	    defer clone.Release()
//	    read(clone.Value())
//	}()
//	read(handle.Value())
//	handle.Release()
//
// Custom recyclable types:
//
//	type Frame struct {
//	    Seq     uint64
//	    Payload []byte
//	}
//
//	func (f *Frame) Reset() {
//	    f.Seq = 0
//	    f.Payload = f.Payload[:0]
//	}
//
//	frames := pool.New(16, 1024, func() *Frame {
//	    return &Frame{Payload: make([]byte, 0, 1500)}
//	})
//
// Performance Guidelines
//
// 1. Always release handles; an unreleased handle is a capacity leak
// 2. Size initial for the steady-state working set to avoid cold-start
// factory calls
// 3. Prefer TryAcquire in paths that can degrade gracefully
// 4. Reset implementations should retain allocated capacity
// 5. Do not share one handle across goroutines; clone per goroutine
//
// Metrics
//
// With WithMetrics enabled, pools export Prometheus collectors labeled
// by pool name:
//
//   - reservoir_acquires_total: acquisitions by outcome (hit, created,
//     exhausted)
//   - reservoir_releases_total: releases by outcome (recycled,
//     discarded, vacated)
//   - reservoir_detaches_total: objects removed from circulation
//   - reservoir_capacity, reservoir_capacity_max, reservoir_available:
//     population gauges
//   - reservoir_acquire_latency_nanoseconds: acquire latency histogram
//
// These metrics identify undersized pools (exhausted acquisitions),
// leaks (capacity pinned at max with nothing available), and factory
// pressure (created outpacing hits).
package pool
