// Package kmeans implements the clustering core: deterministic seeding,
// nearest-centroid assignment, dirty-flag driven centroid recomputation and the
// convergence loop.
//
// The package works on a *pointstore.Store. Points refer to their cluster by an
// integer handle into the cluster arena (Set), so reassignment is O(1) and no
// reference is ever invalidated by mutating another cluster.
//
// A Set and the Store it was seeded from are not safe for concurrent use.
package kmeans
