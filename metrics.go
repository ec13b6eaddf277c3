package gext

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement this interface to integrate with monitoring
// systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after the input tensors are materialized.
	// duration is the time taken, err is nil if successful.
	RecordLoad(duration time.Duration, err error)

	// RecordGuess is called after each full extrapolation run.
	// snapshots is the history length, duration is the total time
	// taken, err is nil if successful.
	RecordGuess(snapshots int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(time.Duration, error)       {}
func (NoopMetricsCollector) RecordGuess(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	GuessCount      atomic.Int64
	GuessErrors     atomic.Int64
	GuessTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (c *BasicMetricsCollector) RecordLoad(_ time.Duration, err error) {
	c.LoadCount.Add(1)
	if err != nil {
		c.LoadErrors.Add(1)
	}
}

// RecordGuess implements MetricsCollector.
func (c *BasicMetricsCollector) RecordGuess(_ int, duration time.Duration, err error) {
	c.GuessCount.Add(1)
	c.GuessTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.GuessErrors.Add(1)
	}
}
