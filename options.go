package gext

import "github.com/quantalab/gext/fit"

type options struct {
	epsilon     float64
	logger      *Logger
	metrics     MetricsCollector
	parallelism int
}

// Option configures Extrapolator behavior.
type Option func(*options)

// WithRegularization sets the Tikhonov scale ε of the coefficient fit.
// Negative values fall back to the default (fit.DefaultRegularization).
// ε = 0 is valid and recovers the unregularized least-squares fit.
func WithRegularization(epsilon float64) Option {
	return func(o *options) {
		if epsilon < 0 {
			epsilon = fit.DefaultRegularization
		}
		o.epsilon = epsilon
	}
}

// WithLogger configures the structured logger. A nil logger disables
// logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures the metrics sink. A nil collector
// disables metrics.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithParallelism bounds the number of goroutines used for the
// per-snapshot orthonormalization and the batch logarithm. Values <= 0
// use GOMAXPROCS. Parallelism is a performance knob only; results do
// not depend on it.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}
