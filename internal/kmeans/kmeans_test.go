package kmeans

import (
	"context"
	"math/rand"
	"testing"

	"github.com/hupe1980/kmeans/internal/pointstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func newStore(t *testing.T, points [][]float64) *pointstore.Store {
	t.Helper()
	s, dropped := pointstore.FromPoints(points)
	require.Zero(t, dropped)
	return s
}

func randomPoints(seed int64, n, dim int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, dim)
		for d := range out[i] {
			out[i][d] = rng.Float64()*200 - 100
		}
	}
	return out
}

func counts(s *Set) []int {
	out := make([]int, s.Len())
	for i := range out {
		out[i] = s.At(i).Count
	}
	return out
}

func TestSeed(t *testing.T) {
	store := newStore(t, [][]float64{{6}, {0}, {5}, {1}, {4}, {2}, {3}})

	s := Seed(store, 3)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []int{3, 2, 2}, counts(s))
	assert.Equal(t, [][]float64{{0}, {3}, {5}}, s.Centroids())
	assert.True(t, s.AnyChanged())

	owners := make([]int, store.Len())
	for i := range owners {
		owners[i] = store.Owner(i)
	}
	assert.Equal(t, []int{0, 0, 0, 1, 1, 2, 2}, owners)
}

func TestSeed_Clamp(t *testing.T) {
	store := newStore(t, [][]float64{{1, 1}, {2, 2}})

	s := Seed(store, 10)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{1, 1}, counts(s))
}

func TestSeed_NoOp(t *testing.T) {
	t.Run("ZeroK", func(t *testing.T) {
		store := newStore(t, [][]float64{{1}})
		s := Seed(store, 0)
		assert.Zero(t, s.Len())
		assert.Equal(t, pointstore.NoOwner, store.Owner(0))
	})

	t.Run("DetachesPreviousOwners", func(t *testing.T) {
		store := newStore(t, [][]float64{{1}, {2}, {3}})
		require.Equal(t, 3, Seed(store, 3).Len())
		require.Equal(t, 2, store.Owner(2))

		s := Seed(store, 0)
		assert.Zero(t, s.Len())
		for i := 0; i < store.Len(); i++ {
			assert.Equal(t, pointstore.NoOwner, store.Owner(i))
		}
	})

	t.Run("EmptyStore", func(t *testing.T) {
		s := Seed(pointstore.New(), 3)
		assert.Zero(t, s.Len())
		assert.False(t, s.AnyChanged())
	})
}

func TestAssign_TiesKeepOwner(t *testing.T) {
	store := newStore(t, [][]float64{{1}, {1.5}})
	s := &Set{dim: 1, clusters: []Cluster{
		{Centroid: []float64{0}},
		{Centroid: []float64{2}},
		{Centroid: []float64{2}},
	}}
	// {1} sits exactly between cluster 0 and its owner 2.
	store.SetOwner(0, 2)
	s.clusters[2].Count++
	// {1.5} is closer to both 1 and 2 than to its owner; the first one wins.
	store.SetOwner(1, 0)
	s.clusters[0].Count++

	moved := Assign(store, s)

	assert.Equal(t, 1, moved)
	assert.Equal(t, 2, store.Owner(0))
	assert.Equal(t, 1, store.Owner(1))
	assert.Equal(t, []int{0, 1, 1}, counts(s))
	assert.True(t, s.At(0).Changed)
	assert.True(t, s.At(1).Changed)
	assert.False(t, s.At(2).Changed)
}

func TestRecompute_ReplacesSeedWithMean(t *testing.T) {
	store := newStore(t, [][]float64{{1, 1}, {1, 2}, {9, 9}, {9, 10}})
	s := Seed(store, 2)
	s.ClearChanged()

	delta := Recompute(store, s, true)

	assert.Equal(t, [][]float64{{1, 1.5}, {9, 9.5}}, s.Centroids())
	assert.InDelta(t, 0.25, delta, 1e-12)

	// Nothing changed and centroids are means now: the lazy path is a no-op.
	delta = Recompute(store, s, true)
	assert.Zero(t, delta)
	assert.Equal(t, [][]float64{{1, 1.5}, {9, 9.5}}, s.Centroids())
}

func TestRecompute_EmptyClusterIsZeroed(t *testing.T) {
	store := newStore(t, [][]float64{{4, 4}})
	s := &Set{dim: 2, clusters: []Cluster{
		{Centroid: []float64{4, 4}, Count: 1},
		{Centroid: []float64{7, 7}, Changed: true},
	}}
	store.SetOwner(0, 0)

	delta := Recompute(store, s, true)

	assert.Equal(t, []float64{0, 0}, s.At(1).Centroid)
	assert.Equal(t, []float64{4, 4}, s.At(0).Centroid)
	assert.Equal(t, 98.0, delta)
}

func TestRun_Example(t *testing.T) {
	store := newStore(t, [][]float64{{9, 10}, {1, 1}, {9, 9}, {1, 2}})

	s, res, err := Run(context.Background(), store, Config{K: 2, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)

	assert.Equal(t, StateConverged, res.State)
	assert.Equal(t, 2, res.K)
	assert.Equal(t, [][]float64{{1, 1.5}, {9, 9.5}}, s.Centroids())
	assert.Equal(t, []int{2, 2}, counts(s))
	assert.False(t, s.AnyChanged())
}

func TestRun_Trajectory(t *testing.T) {
	store := newStore(t, [][]float64{{0}, {1}, {2}, {3}, {100}})

	var passes []Pass
	s, res, err := Run(context.Background(), store, Config{
		K:         2,
		HardLimit: DefaultHardLimit,
		Lazy:      true,
		OnPass:    func(p Pass) { passes = append(passes, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, StateConverged, res.State)
	assert.Equal(t, 3, res.Passes)
	assert.Zero(t, res.Delta)
	assert.Equal(t, [][]float64{{1.5}, {100}}, s.Centroids())
	assert.Equal(t, []int{4, 1}, counts(s))

	require.Len(t, passes, 3)
	assert.Equal(t, Pass{Index: 1, Moved: 1, Delta: 1024}, passes[0])
	assert.Equal(t, Pass{Index: 2, Moved: 2, Delta: 4225}, passes[1])
	assert.Equal(t, Pass{Index: 3, Moved: 0, Delta: 0}, passes[2])
}

func TestRun_Exhausted(t *testing.T) {
	store := newStore(t, [][]float64{{0}, {1}, {2}, {3}, {100}})

	s, res, err := Run(context.Background(), store, Config{K: 2, HardLimit: 1, Lazy: true})
	require.NoError(t, err)

	assert.Equal(t, StateExhausted, res.State)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, [][]float64{{0.5}, {35}}, s.Centroids())
	assert.Equal(t, 5, s.Total())
}

func TestRun_SingleCluster(t *testing.T) {
	points := randomPoints(7, 257, 3)
	store := newStore(t, points)

	s, res, err := Run(context.Background(), store, Config{K: 1, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)
	require.Equal(t, 1, res.K)

	col := make([]float64, len(points))
	for d := 0; d < 3; d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		assert.InDelta(t, stat.Mean(col, nil), s.At(0).Centroid[d], 1e-9)
	}
}

func TestRun_Singletons(t *testing.T) {
	points := randomPoints(11, 40, 4)
	store := newStore(t, points)

	s, res, err := Run(context.Background(), store, Config{K: 1000, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)
	require.Equal(t, 40, res.K)

	for i := 0; i < store.Len(); i++ {
		c := s.At(store.Owner(i))
		assert.Equal(t, 1, c.Count)
		assert.Equal(t, store.Point(i), c.Centroid)
	}
}

func TestRun_CountInvariant(t *testing.T) {
	for _, k := range []int{1, 2, 3, 5, 8, 13, 64} {
		store := newStore(t, randomPoints(int64(k), 300, 2))
		s, _, err := Run(context.Background(), store, Config{K: k, HardLimit: DefaultHardLimit, Lazy: true})
		require.NoError(t, err)

		assert.Equal(t, store.Len(), s.Total(), "k=%d", k)

		members := make([]int, s.Len())
		for i := 0; i < store.Len(); i++ {
			members[store.Owner(i)]++
		}
		assert.Equal(t, members, counts(s), "k=%d", k)
	}
}

func TestRun_LazyMatchesUnconditional(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4} {
		points := randomPoints(seed, 500, 3)

		lazyStore := newStore(t, points)
		lazy, lazyRes, err := Run(context.Background(), lazyStore, Config{K: 6, HardLimit: DefaultHardLimit, Lazy: true})
		require.NoError(t, err)

		fullStore := newStore(t, points)
		full, fullRes, err := Run(context.Background(), fullStore, Config{K: 6, HardLimit: DefaultHardLimit, Lazy: false})
		require.NoError(t, err)

		assert.Equal(t, fullRes, lazyRes)
		assert.Equal(t, full.Centroids(), lazy.Centroids())
		assert.Equal(t, counts(full), counts(lazy))
	}
}

func TestRun_Deterministic(t *testing.T) {
	points := randomPoints(42, 400, 2)
	shuffled := make([][]float64, len(points))
	for i, j := range rand.New(rand.NewSource(1)).Perm(len(points)) {
		shuffled[i] = points[j]
	}

	a, resA, err := Run(context.Background(), newStore(t, points), Config{K: 7, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)
	b, resB, err := Run(context.Background(), newStore(t, shuffled), Config{K: 7, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)

	assert.Equal(t, resA, resB)
	assert.Equal(t, a.Centroids(), b.Centroids())
}

func TestRun_SeparatedGroupsConverge(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var points [][]float64
	for _, center := range [][]float64{{0, 0}, {50, 50}, {-50, 80}} {
		for i := 0; i < 30; i++ {
			points = append(points, []float64{center[0] + rng.Float64(), center[1] + rng.Float64()})
		}
	}
	store := newStore(t, points)

	s, res, err := Run(context.Background(), store, Config{K: 3, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)

	assert.Equal(t, StateConverged, res.State)
	assert.False(t, s.AnyChanged())
	assert.ElementsMatch(t, []int{30, 30, 30}, counts(s))
}

func TestRun_HardLimitZero(t *testing.T) {
	store := newStore(t, [][]float64{{0}, {10}})

	_, res, err := Run(context.Background(), store, Config{K: 2})
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, res.State)
	assert.Zero(t, res.Passes)
}

func TestRun_NoOp(t *testing.T) {
	s, res, err := Run(context.Background(), pointstore.New(), Config{K: 3, HardLimit: 10})
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Equal(t, Result{State: StateConverged}, res)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	store := newStore(t, randomPoints(5, 100, 2))
	_, res, err := Run(ctx, store, Config{K: 4, HardLimit: DefaultHardLimit, Lazy: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Passes)
}

func TestInertia(t *testing.T) {
	store := newStore(t, [][]float64{{1, 1}, {1, 2}, {9, 9}, {9, 10}})
	s, _, err := Run(context.Background(), store, Config{K: 2, HardLimit: DefaultHardLimit, Lazy: true})
	require.NoError(t, err)

	sse, total := Inertia(store, s)
	assert.Equal(t, []float64{0.5, 0.5}, sse)
	assert.Equal(t, 1.0, total)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "iterating", StateIterating.String())
	assert.Equal(t, "converged", StateConverged.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "unknown(9)", State(9).String())
}
