package kmeans

import (
	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/internal/pointstore"
	"gonum.org/v1/gonum/floats"
)

// Inertia returns the within-cluster sum of squared distances per cluster and
// their total.
func Inertia(store *pointstore.Store, s *Set) ([]float64, float64) {
	sse := make([]float64, len(s.clusters))
	if len(sse) == 0 {
		return sse, 0
	}
	for i := 0; i < store.Len(); i++ {
		owner := store.Owner(i)
		sse[owner] += distance.SquaredL2(store.Point(i), s.clusters[owner].Centroid)
	}
	return sse, floats.Sum(sse)
}
