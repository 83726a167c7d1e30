package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/reservoir/pkg/config"
	"github.com/ajitpratap0/reservoir/pkg/pool"
)

// ExampleNewSettings demonstrates the default configuration document.
func ExampleNewSettings() {
	settings := config.NewSettings()

	fmt.Printf("Log Level: %s\n", settings.Logging.Level)
	fmt.Printf("Log Encoding: %s\n", settings.Logging.Encoding)
	fmt.Printf("Metrics Enabled: %v\n", settings.Metrics.Enabled)

	// Output:
	// Log Level: info
	// Log Encoding: json
	// Metrics Enabled: false
}

// ExampleSettings_Validate shows validating a document before building
// pools from it.
func ExampleSettings_Validate() {
	settings := config.NewSettings()
	settings.Pools = append(settings.Pools,
		config.NewPoolConfig("buffers"),
		config.NewPoolConfig("frames"),
	)

	if err := settings.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	fmt.Println("configuration is valid")

	// Output:
	// configuration is valid
}

// ExamplePoolConfig_Validate demonstrates the capacity checks applied
// to each pool section.
func ExamplePoolConfig_Validate() {
	cfg := config.NewPoolConfig("oversized")
	cfg.InitialCapacity = 512
	cfg.MaxCapacity = 256

	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// validation: initial_capacity must be between 0 and max_capacity
}

// ExampleNewPool builds a pool from a configuration section and a
// code-side factory.
func ExampleNewPool() {
	cfg := config.NewPoolConfig("scratch")
	cfg.InitialCapacity = 2
	cfg.MaxCapacity = 8
	cfg.ObjectCapacity = 1024

	scratch, err := config.NewPool(cfg, pool.BufferFactory(cfg.ObjectCapacity))
	if err != nil {
		log.Fatal(err)
	}

	handle := scratch.Acquire()
	defer handle.Release()

	fmt.Printf("pool=%s capacity=%d max=%d\n",
		scratch.Name(), scratch.Capacity(), scratch.MaxCapacity())

	// Output:
	// pool=scratch capacity=2 max=8
}

// ExampleLoad demonstrates loading a Settings document from a YAML file
// with environment variable substitution.
func ExampleLoad() {
	// In practice, you would load from a file:
	//
	//	settings := config.NewSettings()
	//	if err := config.Load("reservoir.yaml", settings); err != nil {
	//	    log.Fatal(err)
	//	}

	// For this example, build the equivalent document manually.
	settings := config.NewSettings()
	buffers := config.NewPoolConfig("buffers")
	buffers.InitialCapacity = 8
	buffers.MaxCapacity = 256
	buffers.Metrics = true
	settings.Pools = append(settings.Pools, buffers)

	cfg, ok := settings.Pool("buffers")
	fmt.Printf("found=%v initial=%d max=%d metered=%v\n",
		ok, cfg.InitialCapacity, cfg.MaxCapacity, cfg.Metrics)

	// Output:
	// found=true initial=8 max=256 metered=true
}
