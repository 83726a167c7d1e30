package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/reservoir/internal/workload"
	"github.com/ajitpratap0/reservoir/pkg/config"
	"github.com/ajitpratap0/reservoir/pkg/json"
	"github.com/ajitpratap0/reservoir/pkg/logger"
	"github.com/ajitpratap0/reservoir/pkg/pool"
)

var version = "0.1.0"

// BenchFlags contains workload parameters for the bench command
type BenchFlags struct {
	Mode            string
	Workers         int
	Duration        time.Duration
	ObjectBytes     int
	WriteBytes      int
	ShareEvery      int
	DetachEvery     int
	InitialCapacity int
	MaxCapacity     int
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	root := &cobra.Command{
		Use:   "reservoir",
		Short: "Reservoir - bounded object pool workbench",
		Long: `Reservoir maintains a fixed-size population of reusable objects shared across
goroutines through reference-counted handles. This tool stress-tests pools,
compares pooled against fresh allocation, and demonstrates the handle lifecycle.`,
	}

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Reservoir v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// Demo command walking through the handle lifecycle
	root.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Walk through the pooled handle lifecycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	})

	// Bench command
	var configFile, poolName, outputDir, logLevel string
	var enableMetrics bool
	flags := &BenchFlags{}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Stress a pool and report throughput, latency, and memory",
		Long: `Run a timed workload against a bounded pool and report operations per second,
acquire latency percentiles, pool statistics, and process resource usage.

By default both a fresh-allocation baseline and a pooled run execute, so the
two reports are directly comparable.

Example:
  reservoir bench --workers 8 --duration 30s --max 1024 --output bench-results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(configFile, poolName, outputDir, logLevel, enableMetrics, flags)
		},
	}

	benchCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML settings file (optional)")
	benchCmd.Flags().StringVarP(&poolName, "pool", "p", "", "Named pool from the settings file to benchmark")
	benchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for JSON report files (optional)")
	benchCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	benchCmd.Flags().BoolVar(&enableMetrics, "enable-metrics", false, "Expose Prometheus metrics while the workload runs")
	benchCmd.Flags().StringVar(&flags.Mode, "mode", "both", "Workload mode: pooled, fresh, or both")
	benchCmd.Flags().IntVar(&flags.Workers, "workers", runtime.NumCPU(), "Number of concurrent workers. Increase beyond the pool bound to measure contention")
	benchCmd.Flags().DurationVar(&flags.Duration, "duration", 10*time.Second, "How long each workload runs")
	benchCmd.Flags().IntVar(&flags.ObjectBytes, "object-bytes", 64*1024, "Capacity of each pooled object in bytes")
	benchCmd.Flags().IntVar(&flags.WriteBytes, "write-bytes", 1024, "Payload written per checkout. Higher values shift cost from pooling to memory traffic")
	benchCmd.Flags().IntVar(&flags.ShareEvery, "share-every", 8, "Hand every Nth checkout to a reader goroutine (0 disables sharing)")
	benchCmd.Flags().IntVar(&flags.DetachEvery, "detach-every", 0, "Withdraw every Nth object from circulation (0 disables)")
	benchCmd.Flags().IntVar(&flags.InitialCapacity, "initial", 64, "Objects created up front")
	benchCmd.Flags().IntVar(&flags.MaxCapacity, "max", 1024, "Pool population bound")

	root.AddCommand(benchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runBench executes the bench workloads with the given configuration
func runBench(configFile, poolName, outputDir, logLevel string, enableMetrics bool, flags *BenchFlags) error {
	settings := config.NewSettings()
	if configFile != "" {
		if err := config.Load(configFile, settings); err != nil {
			return fmt.Errorf("bench configuration error: %w", err)
		}
	}
	if logLevel != "" {
		settings.Logging.Level = logLevel
	}
	if enableMetrics {
		settings.Metrics.Enabled = true
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("bench configuration error: %w", err)
	}

	if err := logger.Init(settings.Logging.LoggerConfig()); err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	log := logger.Get().With(zap.String("component", "reservoir-cli"))

	modes, err := benchModes(flags.Mode)
	if err != nil {
		return err
	}

	poolCfg, err := resolvePoolConfig(settings, configFile, poolName, flags)
	if err != nil {
		return err
	}
	if settings.Metrics.Enabled {
		poolCfg.Metrics = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics endpoint lives for the duration of the bench run
	var lifecycle conc.WaitGroup
	var metricsServer *http.Server
	if settings.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(settings.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              settings.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		lifecycle.Go(func() {
			log.Info("metrics endpoint listening",
				zap.String("addr", settings.Metrics.Listen),
				zap.String("path", settings.Metrics.Path))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics endpoint failed", zap.Error(err))
			}
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("metrics endpoint shutdown failed", zap.Error(err))
			}
			lifecycle.Wait()
		}()
	}

	reports := make([]*workload.Report, 0, len(modes))
	for _, mode := range modes {
		report, err := runOne(ctx, mode, poolCfg, flags, log)
		if err != nil {
			return err
		}
		reports = append(reports, report)

		if err := json.EncodeTo(os.Stdout, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if len(reports) == 2 && reports[0].OpsPerSecond > 0 {
		log.Info("pooled versus fresh",
			zap.Float64("fresh_ops_per_second", reports[0].OpsPerSecond),
			zap.Float64("pooled_ops_per_second", reports[1].OpsPerSecond),
			zap.Float64("speedup", reports[1].OpsPerSecond/reports[0].OpsPerSecond))
	}

	if outputDir != "" {
		path, err := writeReports(outputDir, reports)
		if err != nil {
			return err
		}
		log.Info("bench report written", zap.String("path", path))
	}

	return nil
}

// benchModes expands the mode flag into the workloads to run. Fresh runs
// first so the pooled run never inherits a heap inflated by the baseline.
func benchModes(mode string) ([]workload.Mode, error) {
	switch mode {
	case "pooled":
		return []workload.Mode{workload.ModePooled}, nil
	case "fresh":
		return []workload.Mode{workload.ModeFresh}, nil
	case "both", "":
		return []workload.Mode{workload.ModeFresh, workload.ModePooled}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want pooled, fresh, or both)", mode)
	}
}

// resolvePoolConfig picks the pool definition for the run: a named pool from
// the settings file when requested, otherwise one assembled from flags.
func resolvePoolConfig(settings *config.Settings, configFile, poolName string, flags *BenchFlags) (config.PoolConfig, error) {
	if poolName != "" {
		cfg, ok := settings.Pool(poolName)
		if !ok {
			return config.PoolConfig{}, fmt.Errorf("pool %q not defined in %s", poolName, configFile)
		}
		return cfg, nil
	}

	cfg := config.NewPoolConfig("bench")
	cfg.InitialCapacity = flags.InitialCapacity
	cfg.MaxCapacity = flags.MaxCapacity
	cfg.ObjectCapacity = flags.ObjectBytes
	return cfg, nil
}

// runOne executes a single workload mode and returns its report
func runOne(ctx context.Context, mode workload.Mode, poolCfg config.PoolConfig, flags *BenchFlags, log *zap.Logger) (*workload.Report, error) {
	cfg := &workload.Config{
		Mode:        mode,
		Workers:     flags.Workers,
		Duration:    flags.Duration,
		ObjectBytes: poolCfg.ObjectCapacity,
		WriteBytes:  flags.WriteBytes,
		ShareEvery:  flags.ShareEvery,
		DetachEvery: flags.DetachEvery,
	}

	var p *pool.Pool[*pool.Buffer]
	if mode == workload.ModePooled {
		var err error
		p, err = config.NewPool(poolCfg, pool.BufferFactory(poolCfg.ObjectCapacity),
			pool.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("failed to build pool %q: %w", poolCfg.Name, err)
		}
		defer func() {
			if err := p.Close(); err != nil {
				log.Warn("failed to close pool", zap.Error(err))
			}
		}()
	}

	runner, err := workload.NewRunner(p, cfg, log)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

// writeReports saves the run reports as newline-delimited JSON in dir
func writeReports(dir string, reports []*workload.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	values := make([]interface{}, len(reports))
	for i, r := range reports {
		values[i] = r
	}
	data, err := json.MarshalLines(values...)
	if err != nil {
		return "", fmt.Errorf("failed to encode reports: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("reservoir-bench-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// runDemo walks through acquire, shared reads, exclusive writes, detach,
// and recycling on a small pool
func runDemo() error {
	p := pool.New(2, 4, pool.SliceFactory[string](8))

	fmt.Printf("pool %q: %d objects ready, bound %d\n", p.Name(), p.Available(), p.MaxCapacity())

	h := p.Acquire()
	if lines, ok := h.Exclusive(); ok {
		lines.Items = append(lines.Items, "first", "second")
		fmt.Printf("wrote %d lines while holding the only handle\n", len(lines.Items))
	}

	clone := h.Clone()
	if _, ok := h.Exclusive(); !ok {
		fmt.Println("mutation denied while the clone is outstanding")
	}
	fmt.Printf("both handles read %d lines\n", len(clone.Value().Items))
	clone.Release()

	if lines, ok := h.Detach(); ok {
		fmt.Printf("detached object keeps its %d lines; the pool will grow a replacement\n", len(lines.Items))
	}
	h.Release()

	replacement := p.Acquire()
	fmt.Printf("replacement starts empty: %d lines\n", len(replacement.Value().Items))
	replacement.Release()

	stats := p.Stats()
	fmt.Printf("stats: hits=%d created=%d recycled=%d vacated=%d detached=%d\n",
		stats.Hits, stats.Created, stats.Recycled, stats.Vacated, stats.Detached)

	return p.Close()
}
