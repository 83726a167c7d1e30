package pool

import "go.uber.org/zap"

// Option configures a Pool during construction. Options carry no type
// parameter so call sites never need explicit instantiation.
type Option func(*options)

type options struct {
	name    string
	logger  *zap.Logger
	metrics bool
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

// WithName sets the pool name used in logs, metrics labels, and stats.
// Pools without an explicit name get a generated "pool-N" name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger the pool writes lifecycle events to. The
// default is a no-op logger, so an unconfigured pool stays silent.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics for the pool. Collectors are
// shared across pools and partitioned by the pool name label, so two
// metered pools must not share a name.
func WithMetrics() Option {
	return func(o *options) {
		o.metrics = true
	}
}
