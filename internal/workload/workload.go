// Package workload provides the stress engine behind the reservoir CLI.
// It drives a pool with concurrent workers for a fixed duration, mixing
// exclusive writes, cross-goroutine handle sharing, and object withdrawal,
// and folds the outcome into a JSON-friendly report.
//
// # Overview
//
// A workload run consists of:
//   - Workers: goroutines checking objects out and back in as fast as they can
//   - Reader: a goroutine consuming shared handle clones, exercising the
//     reference-counted release path across goroutines
//   - Sampler: periodic resource usage collection (RSS, CPU, goroutines)
//
// Two modes are supported. ModePooled runs against a bounded pool and is the
// measurement of interest; ModeFresh allocates a new object per operation and
// serves as the baseline the pooled numbers are compared against.
//
// # Basic Usage
//
//	p := pool.New(64, 1024, pool.BufferFactory(64*1024))
//	runner, err := workload.NewRunner(p, workload.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	report, err := runner.Run(ctx)
package workload

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/ajitpratap0/reservoir/pkg/errors"
	"github.com/ajitpratap0/reservoir/pkg/pool"
)

// Mode selects what a workload run measures.
type Mode string

const (
	// ModePooled checks objects out of a bounded pool.
	ModePooled Mode = "pooled"
	// ModeFresh allocates a fresh object per operation as a baseline.
	ModeFresh Mode = "fresh"
)

// Latency is sampled rather than recorded per operation; the tracker is
// mutex-guarded and a full-rate feed would serialize the workers.
const latencySampleEvery = 64

// Config contains workload parameters.
type Config struct {
	Mode        Mode
	Workers     int
	Duration    time.Duration
	ObjectBytes int           // capacity of each pooled object
	WriteBytes  int           // payload written per checkout
	ShareEvery  int           // hand every Nth checkout to the reader goroutine (0 disables)
	DetachEvery int           // withdraw every Nth object from circulation (0 disables)
	SampleEvery time.Duration // resource sampling interval
}

// DefaultConfig returns workload parameters suitable for a quick local run.
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModePooled,
		Workers:     runtime.NumCPU(),
		Duration:    10 * time.Second,
		ObjectBytes: 64 * 1024,
		WriteBytes:  1024,
		ShareEvery:  8,
		SampleEvery: 250 * time.Millisecond,
	}
}

// Runner drives a pool with concurrent workers and records outcomes.
// A Runner borrows its pool; closing it after the run is the caller's job.
type Runner struct {
	pool   *pool.Pool[*pool.Buffer]
	cfg    *Config
	logger *zap.Logger

	latency *LatencyTracker
	monitor *ResourceMonitor

	operations atomic.Int64
	rejected   atomic.Int64
	shared     atomic.Int64
	withdrawn  atomic.Int64
	checksum   atomic.Int64
}

// NewRunner creates a runner for the given pool and configuration. The pool
// may be nil only in ModeFresh. Missing configuration fields are filled with
// defaults; WriteBytes is clamped to ObjectBytes so checkouts never grow the
// object past its intended capacity.
func NewRunner(p *pool.Pool[*pool.Buffer], cfg *Config, logger *zap.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModePooled
	}
	if cfg.Mode != ModePooled && cfg.Mode != ModeFresh {
		return nil, errors.New(errors.ErrorTypeValidation, "unknown workload mode").
			WithDetail("mode", string(cfg.Mode))
	}
	if cfg.Mode == ModePooled && p == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "pooled workload requires a pool")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.ObjectBytes <= 0 {
		cfg.ObjectBytes = 64 * 1024
	}
	if cfg.WriteBytes <= 0 || cfg.WriteBytes > cfg.ObjectBytes {
		cfg.WriteBytes = cfg.ObjectBytes
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 250 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		pool:    p,
		cfg:     cfg,
		logger:  logger,
		latency: NewLatencyTracker(),
	}, nil
}

// Run executes the workload until the configured duration elapses or ctx is
// cancelled, whichever comes first, and returns the collected report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	monitor, err := NewResourceMonitor()
	if err != nil {
		return nil, err
	}
	r.monitor = monitor

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	r.logger.Info("starting workload",
		zap.String("mode", string(r.cfg.Mode)),
		zap.Int("workers", r.cfg.Workers),
		zap.Duration("duration", r.cfg.Duration),
		zap.Int("object_bytes", r.cfg.ObjectBytes),
		zap.Int("write_bytes", r.cfg.WriteBytes))

	start := time.Now()

	sharedCh := make(chan *pool.Handle[*pool.Buffer], r.cfg.Workers*2)
	var readers conc.WaitGroup
	if r.cfg.Mode == ModePooled {
		readers.Go(func() { r.drainShared(sharedCh) })
	}

	var samplers conc.WaitGroup
	samplers.Go(func() { r.sampleLoop(ctx) })

	var workers conc.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		id := i
		workers.Go(func() { r.work(ctx, id, sharedCh) })
	}
	workers.Wait()

	close(sharedCh)
	readers.Wait()
	cancel()
	samplers.Wait()

	elapsed := time.Since(start)
	report := r.report(elapsed)

	r.logger.Info("workload completed",
		zap.String("mode", report.Mode),
		zap.Int64("operations", report.Operations),
		zap.Int64("rejected", report.Rejected),
		zap.Float64("ops_per_second", report.OpsPerSecond),
		zap.Duration("elapsed", elapsed))

	return report, nil
}

// work runs one worker loop until the context expires.
func (r *Runner) work(ctx context.Context, id int, sharedCh chan<- *pool.Handle[*pool.Buffer]) {
	if r.cfg.Mode == ModeFresh {
		r.runFresh(ctx, id)
		return
	}
	r.runPooled(ctx, id, sharedCh)
}

func (r *Runner) runPooled(ctx context.Context, id int, sharedCh chan<- *pool.Handle[*pool.Buffer]) {
	var ops int64
	for ctx.Err() == nil {
		start := time.Now()
		h, ok := r.pool.TryAcquire()
		if !ok {
			r.rejected.Add(1)
			runtime.Gosched()
			continue
		}
		if ops%latencySampleEvery == 0 {
			r.latency.Record(time.Since(start))
		}

		if buf, exclusive := h.Exclusive(); exclusive {
			writePayload(buf, r.cfg.WriteBytes, byte(id))
		}

		if r.cfg.ShareEvery > 0 && ops%int64(r.cfg.ShareEvery) == 0 {
			clone := h.Clone()
			select {
			case sharedCh <- clone:
				r.shared.Add(1)
			default:
				// Reader is behind; release the clone ourselves rather
				// than block the checkout loop.
				clone.Release()
			}
		}

		if r.cfg.DetachEvery > 0 && ops%int64(r.cfg.DetachEvery) == 0 {
			if _, detached := h.Detach(); detached {
				r.withdrawn.Add(1)
			}
		}

		h.Release()
		r.operations.Add(1)
		ops++
	}
}

func (r *Runner) runFresh(ctx context.Context, id int) {
	var ops int64
	for ctx.Err() == nil {
		start := time.Now()
		buf := make([]byte, 0, r.cfg.ObjectBytes)
		if ops%latencySampleEvery == 0 {
			r.latency.Record(time.Since(start))
		}

		for i := 0; i < r.cfg.WriteBytes; i++ {
			buf = append(buf, byte(id)+byte(i))
		}
		// Fold the payload into a counter so the allocation stays live.
		r.checksum.Add(int64(buf[len(buf)-1]))

		r.operations.Add(1)
		ops++
	}
}

// drainShared releases handle clones produced by the workers. Running it on
// a separate goroutine makes the final release of a lease happen on a
// different goroutine than the acquiring one.
func (r *Runner) drainShared(ch <-chan *pool.Handle[*pool.Buffer]) {
	for h := range ch {
		_ = len(h.Value().B)
		h.Release()
	}
}

func (r *Runner) sampleLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SampleEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.monitor.Sample()
		}
	}
}

func writePayload(buf *pool.Buffer, n int, seed byte) {
	for i := 0; i < n; i++ {
		buf.B = append(buf.B, seed+byte(i))
	}
}

func (r *Runner) report(elapsed time.Duration) *Report {
	ops := r.operations.Load()
	p50, p95, p99 := r.latency.Percentiles()

	report := &Report{
		Mode:         string(r.cfg.Mode),
		Workers:      r.cfg.Workers,
		Duration:     elapsed.String(),
		Operations:   ops,
		Rejected:     r.rejected.Load(),
		Shared:       r.shared.Load(),
		Withdrawn:    r.withdrawn.Load(),
		OpsPerSecond: float64(ops) / elapsed.Seconds(),
		LatencyP50:   p50.String(),
		LatencyP95:   p95.String(),
		LatencyP99:   p99.String(),
		Resources:    r.monitor.Usage(),
	}
	if r.pool != nil {
		stats := r.pool.Stats()
		report.Pool = &stats
	}
	return report
}

// Report summarizes a workload run.
type Report struct {
	Mode         string         `json:"mode"`
	Workers      int            `json:"workers"`
	Duration     string         `json:"duration"`
	Operations   int64          `json:"operations"`
	Rejected     int64          `json:"rejected"`
	Shared       int64          `json:"shared"`
	Withdrawn    int64          `json:"withdrawn"`
	OpsPerSecond float64        `json:"ops_per_second"`
	LatencyP50   string         `json:"latency_p50"`
	LatencyP95   string         `json:"latency_p95"`
	LatencyP99   string         `json:"latency_p99"`
	Pool         *pool.Stats    `json:"pool,omitempty"`
	Resources    *ResourceUsage `json:"resources,omitempty"`
}
