package workload

import (
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ajitpratap0/reservoir/pkg/errors"
)

// ResourceMonitor samples process-level resource usage while a workload
// runs. Sample is called periodically from the runner; Usage folds the
// collected samples into a single snapshot for the report.
type ResourceMonitor struct {
	proc     *process.Process
	startCPU float64
	started  time.Time

	mu      sync.Mutex
	peakRSS uint64
}

// NewResourceMonitor attaches to the current process.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to attach resource monitor")
	}

	m := &ResourceMonitor{
		proc:    proc,
		started: time.Now(),
	}
	if times, err := proc.Times(); err == nil {
		m.startCPU = times.Total()
	}
	return m, nil
}

// Sample records the current RSS so peak usage survives into the final
// snapshot even if memory is released before the run ends.
func (m *ResourceMonitor) Sample() {
	info, err := m.proc.MemoryInfo()
	if err != nil {
		return
	}

	m.mu.Lock()
	if info.RSS > m.peakRSS {
		m.peakRSS = info.RSS
	}
	m.mu.Unlock()
}

// Usage returns a snapshot of resource usage since the monitor was created.
func (m *ResourceMonitor) Usage() *ResourceUsage {
	m.Sample()

	usage := &ResourceUsage{
		Goroutines: runtime.NumGoroutine(),
	}

	if times, err := m.proc.Times(); err == nil {
		elapsed := time.Since(m.started).Seconds()
		if elapsed > 0 {
			usage.CPUPercent = (times.Total() - m.startCPU) / elapsed * 100
		}
	}

	if info, err := m.proc.MemoryInfo(); err == nil {
		usage.MemoryRSS = info.RSS
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	usage.HeapAlloc = memStats.HeapAlloc

	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vm.UsedPercent
	}

	usage.Threads, _ = m.proc.NumThreads()
	usage.OpenFDs, _ = m.proc.NumFDs()

	m.mu.Lock()
	usage.PeakRSS = m.peakRSS
	m.mu.Unlock()

	return usage
}

// ResourceUsage is a point-in-time view of process resource consumption.
type ResourceUsage struct {
	CPUPercent          float64 `json:"cpu_percent"`
	MemoryRSS           uint64  `json:"memory_rss_bytes"`
	PeakRSS             uint64  `json:"peak_rss_bytes"`
	HeapAlloc           uint64  `json:"heap_alloc_bytes"`
	SystemMemoryPercent float64 `json:"system_memory_percent"`
	Goroutines          int     `json:"goroutines"`
	Threads             int32   `json:"threads"`
	OpenFDs             int32   `json:"open_fds"`
}

const maxLatencySamples = 10000

// LatencyTracker keeps a bounded window of recent latency samples and
// reports percentiles over that window. Recording is mutex-guarded, so
// callers should downsample on hot paths.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
}

// NewLatencyTracker creates an empty tracker.
func NewLatencyTracker() *LatencyTracker {
	return &LatencyTracker{
		samples: make([]time.Duration, 0, maxLatencySamples),
	}
}

// Record adds a sample, evicting the oldest once the window is full.
func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.samples = append(lt.samples, d)
	if len(lt.samples) > maxLatencySamples {
		lt.samples = lt.samples[len(lt.samples)-maxLatencySamples:]
	}
}

// Percentiles returns the p50, p95, and p99 latencies over the current
// window, or zeros when nothing has been recorded.
func (lt *LatencyTracker) Percentiles() (p50, p95, p99 time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.samples) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(lt.samples))
	copy(sorted, lt.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p50 = sorted[len(sorted)*50/100]
	p95 = sorted[len(sorted)*95/100]
	p99 = sorted[len(sorted)*99/100]
	return p50, p95, p99
}
