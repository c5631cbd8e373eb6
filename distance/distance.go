package distance

import "math"

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	b = b[:len(a)]

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// Nearest returns the index of the centroid closest to p and its squared
// distance. The first centroid wins on ties. Returns -1 for an empty set.
func Nearest(p []float64, centroids [][]float64) (int, float64) {
	best := -1
	minDist := math.Inf(1)

	for i, c := range centroids {
		if d := SquaredL2(p, c); d < minDist {
			minDist = d
			best = i
		}
	}

	return best, minDist
}
