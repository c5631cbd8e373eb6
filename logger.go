package kmeans

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with clustering-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithRunID adds a run ID field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogIngest logs the outcome of loading points.
func (l *Logger) LogIngest(ctx context.Context, accepted, dropped, dimension int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "ingest failed",
			"accepted", accepted,
			"error", err,
		)
	case dropped > 0:
		l.WarnContext(ctx, "ingest dropped points with mismatched dimension",
			"accepted", accepted,
			"dropped", dropped,
			"dimension", dimension,
		)
	default:
		l.DebugContext(ctx, "ingest completed",
			"accepted", accepted,
			"dimension", dimension,
		)
	}
}

// LogPass logs a single assign/recompute pass.
func (l *Logger) LogPass(ctx context.Context, pass, moved int, delta float64) {
	l.DebugContext(ctx, "pass completed",
		"pass", pass,
		"moved", moved,
		"delta", delta,
	)
}

// LogCompute logs the terminal state of a clustering run.
func (l *Logger) LogCompute(ctx context.Context, res Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compute failed",
			"k", res.K,
			"passes", res.Passes,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "compute completed",
		"k", res.K,
		"state", res.State.String(),
		"passes", res.Passes,
		"delta", res.Delta,
	)
}
