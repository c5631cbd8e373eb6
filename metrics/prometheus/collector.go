package prometheus

import (
	"net/http"
	"time"

	"github.com/hupe1980/kmeans"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements kmeans.MetricsCollector on a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	PointsIngested  prometheus.Counter
	PointsDropped   prometheus.Counter
	IngestDuration  prometheus.Histogram
	Passes          prometheus.Counter
	PointsMoved     prometheus.Counter
	CentroidDelta   prometheus.Histogram
	Computes        *prometheus.CounterVec
	ComputeDuration prometheus.Histogram
	ComputePasses   prometheus.Histogram
}

var _ kmeans.MetricsCollector = (*Collector)(nil)

// NewCollector creates a collector whose metrics are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		PointsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_ingested_total",
			Help:      "Total number of points accepted during ingestion",
		}),
		PointsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_dropped_total",
			Help:      "Total number of points dropped for a mismatched dimension",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Ingestion duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Total number of assign/recompute passes",
		}),
		PointsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_moved_total",
			Help:      "Total number of points that changed cluster",
		}),
		CentroidDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "centroid_delta",
			Help:      "Largest squared centroid movement per pass",
			Buckets:   prometheus.ExponentialBuckets(1e-9, 10, 14),
		}),
		Computes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computes_total",
			Help:      "Total number of clustering runs by terminal state",
		}, []string{"state"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Clustering run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ComputePasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_passes",
			Help:      "Number of passes per clustering run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	c.registry.MustRegister(
		c.PointsIngested,
		c.PointsDropped,
		c.IngestDuration,
		c.Passes,
		c.PointsMoved,
		c.CentroidDelta,
		c.Computes,
		c.ComputeDuration,
		c.ComputePasses,
	)

	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordIngest implements kmeans.MetricsCollector.
func (c *Collector) RecordIngest(accepted, dropped int, duration time.Duration) {
	c.PointsIngested.Add(float64(accepted))
	c.PointsDropped.Add(float64(dropped))
	c.IngestDuration.Observe(duration.Seconds())
}

// RecordPass implements kmeans.MetricsCollector.
func (c *Collector) RecordPass(moved int, delta float64) {
	c.Passes.Inc()
	c.PointsMoved.Add(float64(moved))
	c.CentroidDelta.Observe(delta)
}

// RecordCompute implements kmeans.MetricsCollector.
func (c *Collector) RecordCompute(res kmeans.Result, duration time.Duration, err error) {
	state := res.State.String()
	if err != nil {
		state = "error"
	}
	c.Computes.WithLabelValues(state).Inc()
	c.ComputeDuration.Observe(duration.Seconds())
	c.ComputePasses.Observe(float64(res.Passes))
}
