package kmeans

import (
	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/internal/pointstore"
)

// Assign moves every point to its nearest centroid and returns the number of
// points that ended up in a different cluster.
//
// Clusters are scanned left to right and a point only moves when a centroid is
// strictly closer than the one of its current owner, so the owner wins ties and
// among equally close better candidates the first one wins. Both the old and the
// new cluster of a moved point are flagged as changed. Cost is O(N·K·D).
func Assign(store *pointstore.Store, s *Set) int {
	moved := 0

	for i := 0; i < store.Len(); i++ {
		p := store.Point(i)
		start := store.Owner(i)
		owner := start
		best := distance.SquaredL2(p, s.clusters[owner].Centroid)

		for j := range s.clusters {
			if j == owner {
				continue
			}
			if d := distance.SquaredL2(p, s.clusters[j].Centroid); d < best {
				s.move(store, i, owner, j)
				owner, best = j, d
			}
		}

		if owner != start {
			moved++
		}
	}

	return moved
}

func (s *Set) move(store *pointstore.Store, point, from, to int) {
	s.clusters[from].Count--
	s.clusters[from].Changed = true
	s.clusters[to].Count++
	s.clusters[to].Changed = true
	store.SetOwner(point, to)
}
