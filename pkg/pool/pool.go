package pool

import (
	"sync/atomic"
	"time"

	"github.com/ajitpratap0/reservoir/pkg/errors"
	"github.com/ajitpratap0/reservoir/pkg/lockfree"
	"github.com/ajitpratap0/reservoir/pkg/metrics"
	stringpool "github.com/ajitpratap0/reservoir/pkg/strings"
	"go.uber.org/zap"
)

// entry is one message on the reclamation queue: either a recycled
// object ready for reuse, or an empty placeholder recording that a
// detached object's slot left circulation for good.
type entry[T Recyclable] struct {
	value   T
	present bool
}

// Pool is a bounded, concurrency-safe object pool. It starts with an
// eagerly constructed population, recycles objects through a lock-free
// reclamation queue, and grows on demand through its factory until the
// configured maximum is reached. Acquisition never blocks: an exhausted
// pool faults immediately rather than queueing the caller.
//
// Objects are checked out as reference-counted handles; see Handle for
// the sharing and release rules. The pool itself is safe for concurrent
// use by any number of goroutines.
type Pool[T Recyclable] struct {
	name    string
	max     int64
	factory Factory[T]
	logger  *zap.Logger
	metrics bool

	// size counts the live population: objects waiting in the queue
	// plus objects checked out through handles. A failed growth
	// attempt overshoots by one and rolls back immediately, so
	// snapshots may briefly read max+1 under contention.
	size   atomic.Int64
	queue  *lockfree.Queue[entry[T]]
	closed atomic.Bool

	stats struct {
		hits      lockfree.Counter
		created   lockfree.Counter
		exhausted lockfree.Counter
		recycled  lockfree.Counter
		discarded lockfree.Counter
		vacated   lockfree.Counter
		detached  lockfree.Counter
	}
}

// New creates a pool holding at most max objects, with initial of them
// eagerly constructed up front. The factory supplies the initial fill
// and every subsequent growth.
//
// New panics with an ErrorTypeConfig error when max is not positive,
// initial is negative or exceeds max, or factory is nil.
//
// Example:
//
//	buffers := pool.New(4, 64, pool.BufferFactory(64*1024),
//	    pool.WithName("buffers"),
//	)
//	handle := buffers.Acquire()
//	defer handle.Release()
func New[T Recyclable](initial, max int, factory Factory[T], opts ...Option) *Pool[T] {
	if max <= 0 {
		panic(errors.New(errors.ErrorTypeConfig, "pool maximum capacity must be positive").
			WithDetail("max", max))
	}
	if initial < 0 || initial > max {
		panic(errors.New(errors.ErrorTypeConfig, "pool initial capacity must be between 0 and the maximum").
			WithDetail("initial", initial).
			WithDetail("max", max))
	}
	if factory == nil {
		panic(errors.New(errors.ErrorTypeConfig, "pool factory must be provided"))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = GenerateID("pool")
	}

	p := &Pool[T]{
		name:    o.name,
		max:     int64(max),
		factory: factory,
		logger:  o.logger,
		metrics: o.metrics,
	}

	// Every counted object has at most one entry in flight, so a
	// queue sized to max can never reject a push.
	p.queue = lockfree.NewQueue[entry[T]](max)

	for i := 0; i < initial; i++ {
		p.queue.Enqueue(entry[T]{value: factory(), present: true})
	}
	p.size.Store(int64(initial))

	if p.metrics {
		metrics.CapacityMax.WithLabelValues(p.name).Set(float64(max))
		metrics.Capacity.WithLabelValues(p.name).Set(float64(initial))
		metrics.Available.WithLabelValues(p.name).Set(float64(initial))
	}
	p.logger.Debug("pool created",
		zap.String("pool", p.name),
		zap.Int("initial", initial),
		zap.Int("max", max),
	)
	return p
}

// Acquire checks out an object, preferring the reclamation queue and
// growing through the factory when the queue is empty and the
// population sits below the maximum.
//
// Acquire panics with an ErrorTypeCapacity error when the pool is
// exhausted and with an ErrorTypeClosed error after Close. Callers that
// prefer a non-panicking probe should use TryAcquire.
func (p *Pool[T]) Acquire() *Handle[T] {
	h, err := p.acquireOne()
	if err != nil {
		panic(err)
	}
	return h
}

// TryAcquire checks out an object like Acquire but reports failure
// instead of panicking: it returns false when the pool is exhausted or
// closed. A failed TryAcquire leaves the population count untouched, so
// callers may probe in a loop without eroding capacity.
func (p *Pool[T]) TryAcquire() (*Handle[T], bool) {
	h, err := p.acquireOne()
	if err != nil {
		return nil, false
	}
	return h, true
}

func (p *Pool[T]) acquireOne() (*Handle[T], error) {
	var start time.Time
	if p.metrics {
		start = time.Now()
	}
	if p.closed.Load() {
		return nil, errors.New(errors.ErrorTypeClosed, "acquire from closed pool").
			WithDetail("pool", p.name)
	}
	for {
		e, ok := p.queue.Dequeue()
		if !ok {
			break
		}
		if !e.present {
			// Placeholder for a detached object: the slot is
			// gone, so shrink the population and consult the
			// queue again.
			p.size.Add(-1)
			if p.metrics {
				metrics.Capacity.WithLabelValues(p.name).Set(float64(p.size.Load()))
			}
			continue
		}
		p.stats.hits.Increment()
		p.observeAcquire("hit", start)
		return newHandle(p, e.value), nil
	}

	// Queue drained. Claim a slot first, then check whether the
	// claim fit under the maximum; roll it back when it did not.
	if n := p.size.Add(1); n > p.max {
		p.size.Add(-1)
		p.stats.exhausted.Increment()
		p.observeAcquire("exhausted", start)
		return nil, errors.New(errors.ErrorTypeCapacity, "pool exhausted").
			WithDetail("pool", p.name).
			WithDetail("max", p.max)
	}
	value := p.factory()
	p.stats.created.Increment()
	p.observeAcquire("created", start)
	if p.metrics {
		metrics.Capacity.WithLabelValues(p.name).Set(float64(p.size.Load()))
	}
	return newHandle(p, value), nil
}

func (p *Pool[T]) observeAcquire(outcome string, start time.Time) {
	if !p.metrics {
		return
	}
	metrics.Acquires.WithLabelValues(p.name, outcome).Inc()
	metrics.AcquireLatency.WithLabelValues(p.name).Observe(float64(time.Since(start).Nanoseconds()))
}

// recycle pushes a reset object back onto the reclamation queue.
// Objects arriving after Close are discarded.
func (p *Pool[T]) recycle(value T) {
	if p.closed.Load() {
		p.discard("pool closed")
		return
	}
	if !p.queue.Enqueue(entry[T]{value: value, present: true}) {
		p.logger.Warn("reclamation queue rejected recycled object",
			zap.String("pool", p.name))
		p.discard("reclamation queue rejected object")
		return
	}
	p.stats.recycled.Increment()
	if p.metrics {
		metrics.Releases.WithLabelValues(p.name, "recycled").Inc()
	}
}

// vacate records that a detached object's final handle was released.
// The empty placeholder keeps the population count honest: whichever
// acquirer dequeues it shrinks the pool by one. When nobody will ever
// consume the placeholder, the pool shrinks directly.
func (p *Pool[T]) vacate() {
	p.stats.vacated.Increment()
	if p.metrics {
		metrics.Releases.WithLabelValues(p.name, "vacated").Inc()
	}
	if p.closed.Load() || !p.queue.Enqueue(entry[T]{}) {
		p.size.Add(-1)
		if p.metrics {
			metrics.Capacity.WithLabelValues(p.name).Set(float64(p.size.Load()))
		}
	}
}

// discard drops an object, shrinking the population.
func (p *Pool[T]) discard(reason string) {
	p.size.Add(-1)
	p.stats.discarded.Increment()
	if p.metrics {
		metrics.Releases.WithLabelValues(p.name, "discarded").Inc()
		metrics.Capacity.WithLabelValues(p.name).Set(float64(p.size.Load()))
	}
	p.logger.Debug("discarding pool object",
		zap.String("pool", p.name),
		zap.String("reason", reason),
	)
}

func (p *Pool[T]) noteDetach() {
	p.stats.detached.Increment()
	if p.metrics {
		metrics.Detaches.WithLabelValues(p.name).Inc()
	}
}

// Close drains the reclamation queue and discards the pooled objects.
// Outstanding handles stay valid: releases arriving after Close discard
// their objects instead of recycling them. Acquire panics after Close
// and TryAcquire reports no availability.
//
// Close is meant for orderly shutdown once acquirers have stopped;
// releases racing Close itself may leave stragglers to the garbage
// collector. A second Close returns an ErrorTypeClosed error.
func (p *Pool[T]) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return errors.New(errors.ErrorTypeClosed, "pool already closed").
			WithDetail("pool", p.name)
	}
	drained := 0
	for {
		e, ok := p.queue.Dequeue()
		if !ok {
			break
		}
		p.size.Add(-1)
		if e.present {
			drained++
		}
	}
	p.stats.discarded.Add(uint64(drained))
	if p.metrics {
		metrics.Releases.WithLabelValues(p.name, "discarded").Add(float64(drained))
		metrics.Capacity.WithLabelValues(p.name).Set(float64(p.size.Load()))
		metrics.Available.WithLabelValues(p.name).Set(0)
	}
	p.logger.Debug("pool closed",
		zap.String("pool", p.name),
		zap.Int("drained", drained),
		zap.Int64("outstanding", p.size.Load()),
	)
	return nil
}

// Name returns the pool name used in logs, metrics labels, and stats.
func (p *Pool[T]) Name() string {
	return p.name
}

// Capacity returns the current counted population: objects waiting in
// the reclamation queue plus objects checked out through handles.
func (p *Pool[T]) Capacity() int64 {
	return p.size.Load()
}

// MaxCapacity returns the configured population ceiling.
func (p *Pool[T]) MaxCapacity() int64 {
	return p.max
}

// Available returns the approximate number of objects waiting in the
// reclamation queue.
func (p *Pool[T]) Available() int {
	return p.queue.Len()
}

// Closed reports whether the pool has been closed.
func (p *Pool[T]) Closed() bool {
	return p.closed.Load()
}

// Stats is a point-in-time snapshot of a pool's population and lifetime
// counters.
type Stats struct {
	Name        string `json:"name"`
	Capacity    int64  `json:"capacity"`
	MaxCapacity int64  `json:"max_capacity"`
	Available   int    `json:"available"`
	Hits        uint64 `json:"hits"`
	Created     uint64 `json:"created"`
	Exhausted   uint64 `json:"exhausted"`
	Recycled    uint64 `json:"recycled"`
	Discarded   uint64 `json:"discarded"`
	Vacated     uint64 `json:"vacated"`
	Detached    uint64 `json:"detached"`
}

// Stats returns a snapshot of the pool's population and lifetime
// counters. Values are collected without locking and may be mutually
// inconsistent under heavy concurrency. When metrics are enabled the
// capacity and availability gauges are refreshed as a side effect.
func (p *Pool[T]) Stats() Stats {
	s := Stats{
		Name:        p.name,
		Capacity:    p.size.Load(),
		MaxCapacity: p.max,
		Available:   p.queue.Len(),
		Hits:        p.stats.hits.Get(),
		Created:     p.stats.created.Get(),
		Exhausted:   p.stats.exhausted.Get(),
		Recycled:    p.stats.recycled.Get(),
		Discarded:   p.stats.discarded.Get(),
		Vacated:     p.stats.vacated.Get(),
		Detached:    p.stats.detached.Get(),
	}
	if p.metrics {
		metrics.Capacity.WithLabelValues(p.name).Set(float64(s.Capacity))
		metrics.Available.WithLabelValues(p.name).Set(float64(s.Available))
	}
	return s
}

// idCounter provides atomic unique ID generation
var idCounter atomic.Uint64

// GenerateID generates a unique ID with the specified prefix using
// pooled string builders. The ID format is "prefix-number" where number
// is an atomic counter. This function is safe for concurrent use.
//
// Example:
//
//	id := pool.GenerateID("job")  // Returns "job-1", "job-2", etc.
func GenerateID(prefix string) string {
	b := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(b, stringpool.Small)

	id := idCounter.Add(1)

	var digits [20]byte
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteBytes(appendUint64(digits[:0], id))

	return stringpool.Clone(b.String())
}

// appendUint64 efficiently appends uint64 to byte slice
func appendUint64(buf []byte, n uint64) []byte {
	if n == 0 {
		return append(buf, '0')
	}

	// Calculate digits
	temp := n
	digits := 0
	for temp > 0 {
		temp /= 10
		digits++
	}

	// Extend buffer
	start := len(buf)
	buf = buf[:start+digits]

	// Fill digits from right to left
	for i := digits - 1; i >= 0; i-- {
		buf[start+i] = byte('0' + n%10)
		n /= 10
	}

	return buf
}
