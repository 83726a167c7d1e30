package lockfree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterBasicOperations(t *testing.T) {
	c := NewCounter()
	assert.Equal(t, uint64(0), c.Get())

	c.Increment()
	c.Increment()
	assert.Equal(t, uint64(2), c.Get())

	c.Add(10)
	assert.Equal(t, uint64(12), c.Get())

	c.Reset()
	assert.Equal(t, uint64(0), c.Get())
}

func TestCounterConcurrentIncrements(t *testing.T) {
	const (
		workers    = 16
		increments = 10000
	)

	c := NewCounter()
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				c.Increment()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, uint64(workers*increments), c.Get())
}

func BenchmarkCounterIncrement(b *testing.B) {
	c := NewCounter()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Increment()
		}
	})
}
