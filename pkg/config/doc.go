// Package config provides configuration management for reservoir pools.
//
// A single Settings document describes everything a deployment needs:
// the shared logger, the Prometheus exposition endpoint, and the list of
// pools to construct. Files are YAML with ${VAR_NAME} environment
// variable substitution.
//
// # Key Features
//
// - Settings: single top-level document (logging, metrics, pools)
// - PoolConfig: declarative pool sizing with validation
// - Environment variable substitution with ${VAR_NAME} syntax
// - NewPool: validated construction that returns errors instead of
// panicking, suited to file-driven setup
//
// # Usage
//
// ## Loading a Settings File
//
//	settings := config.NewSettings()
//	if err := config.Load("reservoir.yaml", settings); err != nil {
//		log.Fatal(err)
//	}
//	if err := settings.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// ## Building Pools from Configuration
//
//	cfg, ok := settings.Pool("buffers")
//	if !ok {
//		return fmt.Errorf("pool %q not configured", "buffers")
//	}
//	buffers, err := config.NewPool(cfg, pool.BufferFactory(cfg.ObjectCapacity))
//	if err != nil {
//		return err
//	}
//
// ## Environment Variable Substitution
//
//	# reservoir.yaml
//	version: "1.0.0"
//	logging:
//	  level: ${LOG_LEVEL}
//	  encoding: json
//	pools:
//	  - name: buffers
//	    initial_capacity: 8
//	    max_capacity: 256
//	    object_capacity: 65536
//	    metrics: true
//
// # Configuration Structure
//
//	type Settings struct {
//		Version string        `yaml:"version" json:"version"`
//		Logging LoggingConfig `yaml:"logging" json:"logging"`
//		Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
//		Pools   []PoolConfig  `yaml:"pools" json:"pools"`
//	}
//
// Each section is validated independently:
//
// - Logging: level and encoding restricted to known values
// - Metrics: listen address required when enabled
// - Pools: capacity bounds mirror what pool.New enforces, plus name
// uniqueness because metrics collectors are partitioned by pool name
//
// # Usage Pattern
//
// 1. Start from config.NewSettings() defaults
// 2. Load overrides with config.Load()
// 3. Validate the document before building anything
// 4. Construct pools through config.NewPool with a code-side factory
// 5. Environment variables are substituted automatically on load
package config
