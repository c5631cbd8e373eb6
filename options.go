package kmeans

import (
	"github.com/hupe1980/kmeans/internal/kmeans"
)

type options struct {
	strict           bool
	lazy             bool
	epsilon          float64
	hardLimit        uint32
	logger           *Logger
	metricsCollector MetricsCollector
}

func defaultOptions() options {
	return options{
		lazy:             true,
		hardLimit:        kmeans.DefaultHardLimit,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures Set constructor behavior.
type Option func(*options)

// WithStrict makes ingestion fail on malformed fields and on points with a
// mismatched dimension instead of substituting 0 or dropping the point.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLazyRecompute toggles the dirty-flag recomputation path. It is enabled
// by default; both paths produce identical centroids.
func WithLazyRecompute(lazy bool) Option {
	return func(o *options) {
		o.lazy = lazy
	}
}

// WithEpsilon sets the convergence tolerance. Only its magnitude is used.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		o.epsilon = eps
	}
}

// WithHardLimit caps the number of passes per Compute.
func WithHardLimit(limit uint32) Option {
	return func(o *options) {
		o.hardLimit = limit
	}
}

// WithLogger sets a custom logger for structured logging.
// If nil is passed, logging is disabled.
//
// Example:
//
//	logger := kmeans.NewTextLogger(slog.LevelDebug)
//	set, err := kmeans.Read(f, ',', kmeans.WithLogger(logger))
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets a custom metrics collector.
// If nil is passed, metrics collection is disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}
