package gext

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pipeline-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSnapshots adds a snapshot count field to the logger.
func (l *Logger) WithSnapshots(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("snapshots", n),
	}
}

// WithBasis adds basis dimension fields to the logger.
func (l *Logger) WithBasis(nbas, nocc int) *Logger {
	return &Logger{
		Logger: l.Logger.With("nbas", nbas, "nocc", nocc),
	}
}

// LogLoad logs the materialization of the input tensors.
func (l *Logger) LogLoad(ctx context.Context, nbas, nocc, nqm, nmat int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "tensor load failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "tensors loaded",
			"nbas", nbas,
			"nocc", nocc,
			"nqm", nqm,
			"snapshots", nmat,
		)
	}
}

// LogGuess logs one full extrapolation run.
func (l *Logger) LogGuess(ctx context.Context, nmat int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "density guess failed",
			"snapshots", nmat,
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "density guess completed",
			"snapshots", nmat,
			"duration", duration,
		)
	}
}
