package kmeans

import (
	"slices"

	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/internal/pointstore"
)

// Recompute updates the centroids of changed clusters to the mean of their
// current members and returns the largest squared centroid movement.
//
// When lazy is true, clusters whose membership did not change keep their
// centroid without touching their members, unless the centroid is still the
// seeding point. When lazy is false every centroid is rebuilt from scratch;
// both paths produce identical centroids.
//
// Members are accumulated as point/count rather than summed and divided once,
// which keeps the accumulator in the coordinate range for very large clusters.
// A changed cluster that lost all its members ends up with a zero centroid.
func Recompute(store *pointstore.Store, s *Set, lazy bool) float64 {
	old := make([][]float64, len(s.clusters))
	rebuild := make([]bool, len(s.clusters))
	for i := range s.clusters {
		c := &s.clusters[i]
		old[i] = slices.Clone(c.Centroid)
		clear(c.Centroid)
		rebuild[i] = c.Changed || c.seed || !lazy
		c.seed = false
		if !rebuild[i] {
			copy(c.Centroid, old[i])
		}
	}

	for i := 0; i < store.Len(); i++ {
		owner := store.Owner(i)
		if !rebuild[owner] {
			continue
		}
		c := &s.clusters[owner]
		n := float64(c.Count)
		for d, v := range store.Point(i) {
			c.Centroid[d] += v / n
		}
	}

	maxDelta := 0.0
	for i := range s.clusters {
		if d := distance.SquaredL2(old[i], s.clusters[i].Centroid); d > maxDelta {
			maxDelta = d
		}
	}

	return maxDelta
}
