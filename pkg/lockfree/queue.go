// Package lockfree provides the lock-free primitives behind the pool's
// reclamation path: a bounded multi-producer multi-consumer queue and an
// atomic counter for statistics collection.
package lockfree

import (
	"runtime"
	"sync/atomic"
)

// Queue is a bounded lock-free multi-producer multi-consumer queue.
// It uses per-slot sequence numbers for ordering and cache-line padding
// to avoid false sharing between the enqueue and dequeue positions.
// Both ends are safe for concurrent use by any number of goroutines.
type Queue[T any] struct {
	buffer   []slot[T]
	capacity uint64
	mask     uint64

	// Separate enqueue and dequeue indices on different cache lines
	enqueuePos atomic.Uint64
	_padding1  [7]uint64 //nolint:unused // 56 bytes padding to separate cache lines

	dequeuePos atomic.Uint64
	_padding2  [7]uint64 //nolint:unused // 56 bytes padding
}

// slot holds one queued value together with its sequence number.
type slot[T any] struct {
	sequence atomic.Uint64
	value    T
}

// NewQueue creates a new queue holding at least capacity values.
// Capacity will be rounded up to the next power of 2 for efficient masking.
func NewQueue[T any](capacity int) *Queue[T] {
	// Round up to next power of 2
	cap := uint64(1)
	for cap < uint64(capacity) {
		cap <<= 1
	}

	q := &Queue[T]{
		buffer:   make([]slot[T], cap),
		capacity: cap,
		mask:     cap - 1,
	}

	// Initialize sequence numbers
	for i := uint64(0); i < cap; i++ {
		q.buffer[i].sequence.Store(i)
	}

	return q
}

// Enqueue adds a value to the queue.
// Returns true if successful, false if the queue is full.
// Safe for multiple concurrent producers.
func (q *Queue[T]) Enqueue(value T) bool {
	for {
		pos := q.enqueuePos.Load()
		s := &q.buffer[pos&q.mask]
		seq := s.sequence.Load()

		diff := int64(seq) - int64(pos)

		if diff == 0 {
			// Slot is ready for enqueue
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				// We own this slot; publish via the sequence store
				s.value = value
				s.sequence.Store(pos + 1)
				return true
			}
		} else if diff < 0 {
			// Queue is full
			return false
		}

		// Slot not ready yet, retry
		runtime.Gosched()
	}
}

// Dequeue removes and returns a value from the queue.
// Returns the zero value and false if the queue is empty.
// Safe for multiple concurrent consumers.
func (q *Queue[T]) Dequeue() (T, bool) {
	for {
		pos := q.dequeuePos.Load()
		s := &q.buffer[pos&q.mask]
		seq := s.sequence.Load()

		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			// Slot is ready for dequeue
			if q.dequeuePos.CompareAndSwap(pos, pos+1) {
				// We own this slot; clear it so the value can be collected
				value := s.value
				var zero T
				s.value = zero
				s.sequence.Store(pos + q.capacity)
				return value, true
			}
		} else if diff < 0 {
			// Queue is empty
			var zero T
			return zero, false
		}

		// Slot not ready yet, retry
		runtime.Gosched()
	}
}

// Len returns the current number of values in the queue.
// This is an approximation in concurrent scenarios.
func (q *Queue[T]) Len() int {
	enq := q.enqueuePos.Load()
	deq := q.dequeuePos.Load()
	if enq < deq {
		return 0
	}
	return int(enq - deq)
}

// Cap returns the queue capacity after power-of-2 rounding.
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}
