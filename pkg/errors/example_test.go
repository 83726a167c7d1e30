// Package errors provides examples of structured error handling in reservoir.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/reservoir/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	// Create a new error with type
	err := errors.New(errors.ErrorTypeCapacity, "pool exhausted")

	// Add context details
	err = err.WithDetail("pool", "buffers").
		WithDetail("capacity", 10)

	// Print the error
	fmt.Println(err.Error())

	// Output:
	// capacity: pool exhausted
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	// Simulate an underlying error
	originalErr := io.EOF

	// Wrap the error with context
	err := errors.Wrap(originalErr, errors.ErrorTypeFile, "failed to read pool config").
		WithDetail("file", "reservoir.yaml")

	// Check the error type
	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	// Output:
	// This is a file error
}

// ExampleIsRetryable shows how to check if an error is retryable.
func ExampleIsRetryable() {
	// Capacity errors clear once handles are released
	capErr := errors.New(errors.ErrorTypeCapacity, "no capacity headroom")
	cfgErr := errors.New(errors.ErrorTypeConfig, "initial exceeds max")

	if errors.IsRetryable(capErr) {
		fmt.Println("Capacity error is retryable")
	}

	if !errors.IsRetryable(cfgErr) {
		fmt.Println("Config error is not retryable")
	}

	// Output:
	// Capacity error is retryable
	// Config error is not retryable
}

// ExampleIsType demonstrates checking error types.
func ExampleIsType() {
	cfgErr := errors.New(errors.ErrorTypeConfig, "factory must not be nil")

	// Wrap an error
	wrappedErr := errors.Wrap(cfgErr, errors.ErrorTypeInternal, "pool construction failed")

	fmt.Printf("Is config error: %v\n", errors.IsType(cfgErr, errors.ErrorTypeConfig))

	// IsType matches the outermost structured error
	fmt.Printf("Wrapped error is internal type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeInternal))

	// Output:
	// Is config error: true
	// Wrapped error is internal type: true
}

// Example_errorChain shows how to chain multiple error contexts.
func Example_errorChain() {
	err := loadPoolConfig()
	if err != nil {
		err = errors.Wrap(err, errors.ErrorTypeConfig, "pool startup failed").
			WithDetail("pool", "connections")

		fmt.Println("Full error chain:", err)
	}

	// Output:
	// Full error chain: config: pool startup failed: validation: max capacity must be positive
}

// loadPoolConfig simulates a configuration validation error
func loadPoolConfig() error {
	return errors.New(errors.ErrorTypeValidation, "max capacity must be positive").
		WithDetail("max_capacity", 0)
}
