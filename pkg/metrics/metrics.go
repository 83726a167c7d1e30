// Package metrics provides performance tracking and observability for
// reservoir using Prometheus metrics. It offers collectors for pool
// acquisition outcomes, recycling activity, capacity levels, and latency.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Pre-defined metrics for pool operations
//   - Throughput and latency tracking utilities
//   - Thread-safe metric recording
//   - Automatic metric registration
//
// # Basic Usage
//
//	// Record an acquisition served from the reclamation queue
//	metrics.Acquires.WithLabelValues("buffers", "hit").Inc()
//
//	// Track acquire latency
//	timer := metrics.NewTimer("acquire")
//	handle := pool.Acquire()
//	duration := timer.Stop()
//	metrics.AcquireLatency.WithLabelValues("buffers").Observe(float64(duration.Nanoseconds()))
//
//	// Track throughput
//	tracker := metrics.NewThroughputTracker("buffers")
//	for i := 0; i < n; i++ {
//	    work(pool.Acquire())
//	    tracker.Increment(1)
//	}
//	throughput := tracker.GetAndReset()
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total acquisitions)
// Gauge: Values that can go up or down (e.g., current capacity)
// Histogram: Distribution of values (e.g., latency percentiles)
//
// # Performance Considerations
//
// Metrics are designed to have minimal overhead:
//   - Lock-free atomic operations where possible
//   - Efficient histogram buckets
//   - Lazy evaluation of expensive calculations
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Acquires tracks pool acquisitions by outcome.
	// Labels: pool (pool name), outcome (hit/created/exhausted)
	//
	// A "hit" reused an object from the reclamation queue, "created" grew
	// the population through the factory, and "exhausted" found neither an
	// available object nor capacity headroom.
	//
	// Example:
	//	metrics.Acquires.WithLabelValues("buffers", "hit").Inc()
	Acquires = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservoir_acquires_total",
			Help: "Total number of pool acquisitions by outcome",
		},
		[]string{"pool", "outcome"},
	)

	// Releases tracks handle releases by outcome.
	// Labels: pool (pool name), outcome (recycled/discarded/vacated)
	//
	// A "recycled" release returned the object to the reclamation queue,
	// a "discarded" release dropped it (pool closed or queue unavailable),
	// and a "vacated" release returned an empty placeholder after the
	// object was detached.
	Releases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservoir_releases_total",
			Help: "Total number of handle releases by outcome",
		},
		[]string{"pool", "outcome"},
	)

	// Detaches tracks objects permanently removed from pool circulation.
	Detaches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservoir_detaches_total",
			Help: "Total number of objects detached from pools",
		},
		[]string{"pool"},
	)

	// Capacity tracks the current counted population of each pool,
	// covering both available and checked-out objects.
	Capacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reservoir_capacity",
			Help: "Current object population of the pool",
		},
		[]string{"pool"},
	)

	// CapacityMax tracks the configured capacity ceiling of each pool.
	CapacityMax = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reservoir_capacity_max",
			Help: "Configured maximum object population of the pool",
		},
		[]string{"pool"},
	)

	// Available tracks the number of objects waiting in the reclamation queue.
	Available = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reservoir_available",
			Help: "Objects currently available for reuse",
		},
		[]string{"pool"},
	)

	// AcquireLatency tracks the distribution of acquire latencies in nanoseconds.
	// The histogram buckets are optimized for sub-millisecond latency tracking.
	// Labels: pool
	//
	// Example:
	//	start := time.Now()
	//	handle := pool.Acquire()
	//	metrics.AcquireLatency.WithLabelValues("buffers").
	//	    Observe(float64(time.Since(start).Nanoseconds()))
	AcquireLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "reservoir_acquire_latency_nanoseconds",
			Help: "Acquire latency in nanoseconds",
			Buckets: []float64{
				100,    // 100ns - Queue hit
				1000,   // 1μs - Contended queue hit
				10000,  // 10μs - Factory invocation
				100000, // 100μs - Expensive factory
				1e6,    // 1ms - Very expensive factory
				1e7,    // 10ms - Pathological factory
			},
		},
		[]string{"pool"},
	)

	// Throughput tracks operations per second per pool
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reservoir_throughput_ops_per_second",
			Help: "Current throughput in operations per second",
		},
		[]string{"pool"},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("checkout_burst")
//	runBurst(pool)
//	duration := timer.Stop()
//	logger.Info("burst finished", zap.Duration("duration", duration))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration since creation.
// The timer can be stopped multiple times, each returning the total
// elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	return duration
}

// ThroughputTracker tracks throughput (operations per second) over time windows.
// It automatically calculates and reports throughput metrics when queried.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64     // Operations since last reset
	lastReset time.Time // Time of last reset
	pool      string    // Pool name used as metric label
}

// NewThroughputTracker creates a new throughput tracker for a pool.
// The pool parameter identifies the pool and is used as a metric label.
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("buffers")
//	for i := 0; i < iterations; i++ {
//	    work(pool.Acquire())
//	    tracker.Increment(1)
//	}
//	throughput := tracker.GetAndReset()
//	logger.Info("throughput", zap.Float64("ops_per_sec", throughput))
func NewThroughputTracker(pool string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		pool:      pool,
	}
}

// Increment adds n to the operation count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (operations/second),
// updates the Prometheus metric, resets the counter, and returns
// the calculated throughput. Safe for concurrent use.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	// Reset for next period
	t.count = 0
	t.lastReset = time.Now()

	// Update Prometheus metric
	Throughput.WithLabelValues(t.pool).Set(throughput)

	return throughput
}

// LatencyTracker provides percentile tracking
type LatencyTracker struct {
	mu      sync.Mutex
	values  []time.Duration
	maxSize int
}

// NewLatencyTracker creates a new latency tracker
func NewLatencyTracker(maxSize int) *LatencyTracker {
	return &LatencyTracker{
		values:  make([]time.Duration, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record records a latency value
func (l *LatencyTracker) Record(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) >= l.maxSize {
		// Remove oldest
		l.values = l.values[1:]
	}
	l.values = append(l.values, d)
}

// GetPercentile returns the percentile value (0-100)
func (l *LatencyTracker) GetPercentile(p float64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) == 0 {
		return 0
	}

	// Simple implementation - in production use a better algorithm
	index := int(float64(len(l.values)) * p / 100)
	if index >= len(l.values) {
		index = len(l.values) - 1
	}

	return l.values[index]
}
