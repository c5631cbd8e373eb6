// Package pointstore holds the validated point collection a clustering run
// works on.
//
// Points are kept in lexicographic order over their coordinates so that the
// block-partition seeding in internal/kmeans picks centroids spread across the
// observed value range. The order only depends on the point values, never on
// the order the points were added in.
//
// Every point carries an integer owner handle into the cluster arena. The
// handle is the only mutable part of the store once it has been built.
package pointstore
