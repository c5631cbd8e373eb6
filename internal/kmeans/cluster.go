package kmeans

import (
	"slices"

	"github.com/hupe1980/kmeans/internal/pointstore"
)

// Cluster is a single arena entry.
type Cluster struct {
	// Centroid is the mean of the cluster's members (length = dimension).
	Centroid []float64
	// Count is the number of points owned by the cluster.
	Count int
	// Changed reports whether a point joined or left since the flag was last cleared.
	Changed bool

	// seed is set while Centroid still holds the seeding point rather than
	// the mean of the members.
	seed bool
}

// Set is the arena of clusters of one clustering run.
type Set struct {
	dim      int
	clusters []Cluster
}

// Seed partitions the sorted store into k contiguous blocks and creates one
// cluster per block.
//
// k is clamped to [1, store.Len()]. Block sizes differ by at most one: the first
// Len() mod k blocks get the extra point. The first point of each block becomes
// the cluster's initial centroid and every cluster starts out changed.
// An empty store or k <= 0 yields an empty set with every point detached.
func Seed(store *pointstore.Store, k int) *Set {
	n := store.Len()
	s := &Set{dim: store.Dimension()}
	store.ResetOwners()
	if n == 0 || k <= 0 {
		return s
	}
	if k > n {
		k = n
	}

	s.clusters = make([]Cluster, 0, k)

	size, rem := n/k, n%k
	left := 0
	for i := 0; i < n; i++ {
		if left == 0 {
			s.clusters = append(s.clusters, Cluster{
				Centroid: slices.Clone(store.Point(i)),
				Changed:  true,
				seed:     true,
			})
			left = size
			if rem > 0 {
				left++
				rem--
			}
		}
		c := len(s.clusters) - 1
		store.SetOwner(i, c)
		s.clusters[c].Count++
		left--
	}

	return s
}

// Len returns the number of clusters.
func (s *Set) Len() int { return len(s.clusters) }

// Dimension returns the centroid dimensionality.
func (s *Set) Dimension() int { return s.dim }

// At returns the i-th cluster.
func (s *Set) At(i int) *Cluster { return &s.clusters[i] }

// AnyChanged reports whether at least one cluster is flagged as changed.
func (s *Set) AnyChanged() bool {
	for i := range s.clusters {
		if s.clusters[i].Changed {
			return true
		}
	}
	return false
}

// ClearChanged resets every changed flag.
func (s *Set) ClearChanged() {
	for i := range s.clusters {
		s.clusters[i].Changed = false
	}
}

// Total returns the sum of all member counts.
func (s *Set) Total() int {
	total := 0
	for i := range s.clusters {
		total += s.clusters[i].Count
	}
	return total
}

// Centroids returns deep copies of all centroids in cluster order.
func (s *Set) Centroids() [][]float64 {
	out := make([][]float64, len(s.clusters))
	for i := range s.clusters {
		out[i] = slices.Clone(s.clusters[i].Centroid)
	}
	return out
}
