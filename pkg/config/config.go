package config

import (
	"github.com/ajitpratap0/reservoir/pkg/errors"
	"github.com/ajitpratap0/reservoir/pkg/logger"
	"github.com/ajitpratap0/reservoir/pkg/pool"
)

// Settings is the top-level configuration document for a reservoir
// deployment. It wires up logging, metrics exposure, and the set of
// pools to build. Files are YAML with ${VAR_NAME} environment
// substitution; see Load.
type Settings struct {
	// Version indicates the configuration document version
	Version string `yaml:"version" json:"version"`

	// Logging configures the shared zap logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configures the Prometheus exposition endpoint
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Pools lists the pools to construct
	Pools []PoolConfig `yaml:"pools" json:"pools"`
}

// LoggingConfig controls the shared logger.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Development switches zap into development mode
	Development bool `yaml:"development" json:"development"`
	// Encoding selects the output encoder (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
	// OutputPaths lists zap sinks (stdout, stderr, or file paths)
	OutputPaths []string `yaml:"output_paths" json:"output_paths"`
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	// Enabled turns the metrics HTTP endpoint on
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Listen is the address the metrics server binds to
	Listen string `yaml:"listen" json:"listen"`
	// Path is the HTTP path metrics are served under
	Path string `yaml:"path" json:"path"`
}

// PoolConfig describes one pool.
type PoolConfig struct {
	// Name identifies the pool in logs, stats, and metrics labels
	Name string `yaml:"name" json:"name"`
	// InitialCapacity is the eagerly constructed starting population
	InitialCapacity int `yaml:"initial_capacity" json:"initial_capacity"`
	// MaxCapacity is the population ceiling the pool never exceeds
	MaxCapacity int `yaml:"max_capacity" json:"max_capacity"`
	// ObjectCapacity pre-sizes pooled objects (bytes for buffers,
	// elements for slices); factories may consult it
	ObjectCapacity int `yaml:"object_capacity" json:"object_capacity"`
	// Metrics enables Prometheus collectors for this pool
	Metrics bool `yaml:"metrics" json:"metrics"`
}

// NewSettings creates Settings with production-ready defaults: JSON
// logging at info level to stdout, metrics disabled, no pools.
//
// Example:
//
//	settings := config.NewSettings()
//	settings.Pools = append(settings.Pools, config.NewPoolConfig("buffers"))
func NewSettings() *Settings {
	return &Settings{
		Version: "1.0.0",
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
			Encoding:    "json",
			OutputPaths: []string{"stdout"},
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
			Path:    "/metrics",
		},
	}
}

// NewPoolConfig creates a PoolConfig with defaults suitable for a
// medium-sized buffer pool: cold start, 1024 object ceiling, 4KB
// objects, metrics off.
func NewPoolConfig(name string) PoolConfig {
	return PoolConfig{
		Name:            name,
		InitialCapacity: 0,
		MaxCapacity:     1024,
		ObjectCapacity:  4096,
		Metrics:         false,
	}
}

// Validate checks the whole document: the logging section, the metrics
// section, every pool, and pool name uniqueness (shared metrics
// collectors are partitioned by name, so duplicates would collide).
func (s *Settings) Validate() error {
	if err := s.Logging.Validate(); err != nil {
		return err
	}
	if err := s.Metrics.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Pools))
	for i := range s.Pools {
		p := &s.Pools[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return errors.New(errors.ErrorTypeValidation, "duplicate pool name").
				WithDetail("name", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Validate checks the logging section.
func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrorTypeValidation, "log level must be debug, info, warn, or error").
			WithDetail("level", l.Level)
	}
	switch l.Encoding {
	case "", "json", "console":
	default:
		return errors.New(errors.ErrorTypeValidation, "log encoding must be json or console").
			WithDetail("encoding", l.Encoding)
	}
	return nil
}

// Validate checks the metrics section.
func (m *MetricsConfig) Validate() error {
	if m.Enabled && m.Listen == "" {
		return errors.New(errors.ErrorTypeValidation, "metrics listen address is required when metrics are enabled")
	}
	return nil
}

// Validate checks one pool section. The checks mirror what pool.New
// enforces, surfaced as errors instead of panics so file-driven
// construction can fail gracefully.
func (p *PoolConfig) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrorTypeValidation, "pool name is required")
	}
	if p.MaxCapacity <= 0 {
		return errors.New(errors.ErrorTypeValidation, "max_capacity must be positive").
			WithDetail("pool", p.Name).
			WithDetail("max_capacity", p.MaxCapacity)
	}
	if p.InitialCapacity < 0 || p.InitialCapacity > p.MaxCapacity {
		return errors.New(errors.ErrorTypeValidation, "initial_capacity must be between 0 and max_capacity").
			WithDetail("pool", p.Name).
			WithDetail("initial_capacity", p.InitialCapacity).
			WithDetail("max_capacity", p.MaxCapacity)
	}
	if p.ObjectCapacity < 0 {
		return errors.New(errors.ErrorTypeValidation, "object_capacity cannot be negative").
			WithDetail("pool", p.Name)
	}
	return nil
}

// LoggerConfig converts the logging section into the logger package's
// configuration type. Empty level and encoding fields fall back to the
// info/json defaults, matching what Validate accepts.
func (l *LoggingConfig) LoggerConfig() logger.Config {
	cfg := logger.Config{
		Level:       l.Level,
		Development: l.Development,
		Encoding:    l.Encoding,
		OutputPaths: l.OutputPaths,
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}
	return cfg
}

// Pool looks up a pool section by name.
func (s *Settings) Pool(name string) (PoolConfig, bool) {
	for _, p := range s.Pools {
		if p.Name == name {
			return p, true
		}
	}
	return PoolConfig{}, false
}

// NewPool builds a pool from its configuration section. It validates
// first and returns an error instead of panicking, which suits pools
// constructed from files rather than code. The factory still comes from
// code; configuration cannot describe object construction.
//
// Example:
//
//	cfg, _ := settings.Pool("buffers")
//	buffers, err := config.NewPool(cfg, pool.BufferFactory(cfg.ObjectCapacity))
//	if err != nil {
//	    return err
//	}
func NewPool[T pool.Recyclable](cfg PoolConfig, factory pool.Factory[T], opts ...pool.Option) (*pool.Pool[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "pool factory must be provided").
			WithDetail("pool", cfg.Name)
	}
	combined := make([]pool.Option, 0, len(opts)+2)
	combined = append(combined, pool.WithName(cfg.Name))
	if cfg.Metrics {
		combined = append(combined, pool.WithMetrics())
	}
	combined = append(combined, opts...)
	return pool.New(cfg.InitialCapacity, cfg.MaxCapacity, factory, combined...), nil
}
