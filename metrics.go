package kmeans

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordIngest is called after points are loaded into a Set.
	// accepted is the number of stored points, dropped the number rejected
	// for a mismatched dimension.
	RecordIngest(accepted, dropped int, duration time.Duration)

	// RecordPass is called after each assign/recompute pass.
	// moved is the number of points that changed cluster, delta the largest
	// squared centroid movement.
	RecordPass(moved int, delta float64)

	// RecordCompute is called after each Compute.
	// err is nil if the run reached a terminal state.
	RecordCompute(res Result, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIngest(int, int, time.Duration)       {}
func (NoopMetricsCollector) RecordPass(int, float64)                    {}
func (NoopMetricsCollector) RecordCompute(Result, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IngestCount       atomic.Int64
	PointsAccepted    atomic.Int64
	PointsDropped     atomic.Int64
	PassCount         atomic.Int64
	PointsMoved       atomic.Int64
	ComputeCount      atomic.Int64
	ComputeErrors     atomic.Int64
	ComputeExhausted  atomic.Int64
	ComputeTotalNanos atomic.Int64
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(accepted, dropped int, _ time.Duration) {
	b.IngestCount.Add(1)
	b.PointsAccepted.Add(int64(accepted))
	b.PointsDropped.Add(int64(dropped))
}

// RecordPass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPass(moved int, _ float64) {
	b.PassCount.Add(1)
	b.PointsMoved.Add(int64(moved))
}

// RecordCompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompute(res Result, duration time.Duration, err error) {
	b.ComputeCount.Add(1)
	b.ComputeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ComputeErrors.Add(1)
		return
	}
	if res.State == StateExhausted {
		b.ComputeExhausted.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IngestCount:      b.IngestCount.Load(),
		PointsAccepted:   b.PointsAccepted.Load(),
		PointsDropped:    b.PointsDropped.Load(),
		PassCount:        b.PassCount.Load(),
		PointsMoved:      b.PointsMoved.Load(),
		ComputeCount:     b.ComputeCount.Load(),
		ComputeErrors:    b.ComputeErrors.Load(),
		ComputeExhausted: b.ComputeExhausted.Load(),
		ComputeAvgNanos:  b.getAvgComputeNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgComputeNanos() int64 {
	count := b.ComputeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ComputeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IngestCount      int64
	PointsAccepted   int64
	PointsDropped    int64
	PassCount        int64
	PointsMoved      int64
	ComputeCount     int64
	ComputeErrors    int64
	ComputeExhausted int64
	ComputeAvgNanos  int64
}
