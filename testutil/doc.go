// Package testutil provides testing utilities for kmeans.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating reproducible point sets.
//
// # Random Points
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(1000, 3)            // uniform [0, 1)
//	points = rng.GaussianPoints(1000, 3)            // standard normal
//	points, labels := rng.ClusteredPoints(1000, 3, 5, 0.1)
//
// # Input Order
//
//	shuffled := rng.Shuffle(points) // same multiset, different order
//
// # Delimited Text
//
//	text := testutil.Delimited(points, ',')
package testutil
