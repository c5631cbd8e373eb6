package prometheus

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/kmeans"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_WithSet(t *testing.T) {
	c := NewCollector("kmeans")

	set, err := kmeans.Read(strings.NewReader("1,1\n1,2\n7\n9,9\n9,10\n"), ',', kmeans.WithMetricsCollector(c))
	require.NoError(t, err)
	_, err = set.Compute(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.PointsIngested))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PointsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Passes))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.PointsMoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Computes.WithLabelValues("converged")))
}

func TestCollector_ComputeError(t *testing.T) {
	c := NewCollector("test")
	c.RecordCompute(kmeans.Result{}, time.Millisecond, errors.New("boom"))
	c.RecordCompute(kmeans.Result{State: kmeans.StateExhausted, Passes: 3}, time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Computes.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Computes.WithLabelValues("exhausted")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("kmeans")
	c.RecordPass(3, 0.5)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kmeans_passes_total 1")
	assert.Contains(t, string(body), "kmeans_points_moved_total 3")
}

func TestCollector_Independent(t *testing.T) {
	a := NewCollector("kmeans")
	b := NewCollector("kmeans")
	a.RecordPass(1, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Passes))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Passes))
}
