package flightlog

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with recorder-specific helpers. It is the
// diagnostic text stream: best-effort, never part of the durability
// contract.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil,
// uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithFile adds the log filename field.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{Logger: l.Logger.With("file", name)}
}

// LogAllocate logs the outcome of log-identity selection.
func (l *Logger) LogAllocate(name string, exhausted bool) {
	if exhausted {
		l.Warn("sequence numbers exhausted, reusing fallback identity",
			"file", name,
			"max_seq", MaxSequence,
		)
	} else {
		l.Info("log identity allocated", "file", name)
	}
}

// LogBarrier logs one durability barrier.
func (l *Logger) LogBarrier(name string, duration time.Duration, err error) {
	if err != nil {
		l.Error("durability barrier failed",
			"file", name,
			"duration", duration,
			"error", err,
		)
	} else {
		l.Debug("durability barrier completed",
			"file", name,
			"duration", duration,
		)
	}
}

// LogShutdown logs the orderly close after power loss was signaled.
func (l *Logger) LogShutdown(name string, latency time.Duration) {
	l.Info("power loss detected, log closed",
		"file", name,
		"latency", latency,
	)
}
