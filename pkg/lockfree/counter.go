package lockfree

import "sync/atomic"

// Counter provides a lock-free counter for statistics collection
// with atomic operations for thread-safe updates.
type Counter struct {
	value atomic.Uint64
}

// NewCounter creates a new counter initialized to zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Increment atomically increments the counter by one.
func (c *Counter) Increment() {
	c.value.Add(1)
}

// Add atomically adds the given delta value to the counter.
func (c *Counter) Add(delta uint64) {
	c.value.Add(delta)
}

// Get returns the current value of the counter atomically.
func (c *Counter) Get() uint64 {
	return c.value.Load()
}

// Reset atomically resets the counter to zero.
func (c *Counter) Reset() {
	c.value.Store(0)
}
