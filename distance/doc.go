// Package distance provides the distance kernels used by the clustering core.
//
// Only the squared Euclidean distance is supported. The square root is never
// taken: assignment only needs the relative ordering of distances and the
// convergence test works on squared centroid movement.
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	idx, d := distance.Nearest(p, centroids)
package distance
