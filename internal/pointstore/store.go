package pointstore

import (
	"fmt"
	"slices"
)

// NoOwner is the owner handle of a point that has not been assigned yet.
const NoOwner = -1

// DimensionError is returned by Add when a point does not match the
// dimensionality fixed by the first accepted point.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Store is an ordered collection of fixed-dimension points.
//
// Store is not safe for concurrent use.
type Store struct {
	dim    int
	points [][]float64
	owner  []int
}

// New creates an empty store. The dimensionality is fixed by the first point added.
func New() *Store {
	return &Store{}
}

// FromPoints builds a store from points, dropping every point whose length
// differs from the first non-empty one. It returns the number of dropped points.
func FromPoints(points [][]float64) (*Store, int) {
	s := New()
	dropped := 0
	for _, p := range points {
		if err := s.Add(p); err != nil {
			dropped++
		}
	}
	return s, dropped
}

// Add inserts a copy of p at the position that keeps the store sorted.
//
// Empty points are rejected. A point whose length differs from the store's
// dimension is rejected with a *DimensionError and the store is left unchanged.
func (s *Store) Add(p []float64) error {
	if len(p) == 0 {
		return &DimensionError{Expected: s.dim, Actual: 0}
	}
	if s.dim == 0 {
		s.dim = len(p)
	} else if len(p) != s.dim {
		return &DimensionError{Expected: s.dim, Actual: len(p)}
	}

	// Insert before the first point that is not strictly less than p.
	pos, _ := slices.BinarySearchFunc(s.points, p, slices.Compare[[]float64])
	s.points = slices.Insert(s.points, pos, slices.Clone(p))
	s.owner = slices.Insert(s.owner, pos, NoOwner)

	return nil
}

// Len returns the number of stored points.
func (s *Store) Len() int { return len(s.points) }

// Dimension returns the dimensionality fixed by the first accepted point, or 0.
func (s *Store) Dimension() int { return s.dim }

// Point returns the i-th point in sorted order.
// The returned slice must not be modified.
func (s *Store) Point(i int) []float64 { return s.points[i] }

// Points returns all points in sorted order.
// The returned slices must not be modified.
func (s *Store) Points() [][]float64 { return s.points }

// Owner returns the cluster handle owning point i.
func (s *Store) Owner(i int) int { return s.owner[i] }

// SetOwner links point i to cluster c.
func (s *Store) SetOwner(i, c int) { s.owner[i] = c }

// ResetOwners detaches every point from its cluster.
func (s *Store) ResetOwners() {
	for i := range s.owner {
		s.owner[i] = NoOwner
	}
}

// Clone returns a deep copy of the store's owner links. Point values are
// immutable and shared between the copies.
func (s *Store) Clone() *Store {
	return &Store{
		dim:    s.dim,
		points: slices.Clone(s.points),
		owner:  slices.Clone(s.owner),
	}
}
