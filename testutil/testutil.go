package testutil

import (
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformPoints generates num points of dim coordinates in [0, 1).
func (r *RNG) UniformPoints(num, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)
	for i := range num {
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = r.rand.Float64()
		}
		points[i] = p
	}
	return points
}

// GaussianPoints generates num points with standard normal coordinates.
func (r *RNG) GaussianPoints(num, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)
	for i := range num {
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = r.rand.NormFloat64()
		}
		points[i] = p
	}
	return points
}

// ClusteredPoints generates num points around clusters centers spaced 10
// apart on every axis, with Gaussian noise of the given spread. labels[i] is
// the center point i was drawn around; points are assigned round-robin.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread float64) (points [][]float64, labels []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points = make([][]float64, num)
	labels = make([]int, num)
	for i := range num {
		c := i % clusters
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = float64(c)*10 + r.rand.NormFloat64()*spread
		}
		points[i] = p
		labels[i] = c
	}
	return points, labels
}

// Shuffle returns a shuffled copy of points. The points themselves are shared.
func (r *RNG) Shuffle(points [][]float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(points)
	r.rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Delimited renders points as delimited text, one point per line.
func Delimited(points [][]float64, delim rune) string {
	var b strings.Builder
	for _, p := range points {
		for j, v := range p {
			if j > 0 {
				b.WriteRune(delim)
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
