package kmeans

import (
	"context"
	"runtime"

	"github.com/hupe1980/kmeans/internal/resource"
	"golang.org/x/sync/errgroup"
)

// SweepResult is the outcome of one k of a Sweep.
type SweepResult struct {
	// Requested is the k passed to Sweep.
	Requested int
	Result    Result
	Centroids [][]float64
	// Inertia is the total within-cluster sum of squared distances.
	Inertia float64
}

type sweepOptions struct {
	parallelism int
	memoryLimit int64
}

// SweepOption configures Sweep.
type SweepOption func(*sweepOptions)

// WithParallelism bounds the number of concurrent runs.
// Defaults to GOMAXPROCS; n <= 0 keeps the default.
func WithParallelism(n int) SweepOption {
	return func(o *sweepOptions) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithMemoryLimit bounds the combined working set of concurrent runs in bytes.
// A run waits until its working set fits; a run that can never fit fails
// the sweep. 0 means unlimited.
func WithMemoryLimit(bytes int64) SweepOption {
	return func(o *sweepOptions) {
		o.memoryLimit = bytes
	}
}

// Sweep computes an independent clustering for every k in ks concurrently.
// Results are returned in the order of ks. s itself is not modified.
//
// Each run works on its own copy of the point ownership, so the results are
// identical to calling Compute for each k in turn.
func Sweep(ctx context.Context, s *Set, ks []int, optFns ...SweepOption) ([]SweepResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := sweepOptions{parallelism: runtime.GOMAXPROCS(0)}
	for _, fn := range optFns {
		fn(&opts)
	}

	rc := resource.NewController(resource.Config{
		MaxWorkers:       int64(opts.parallelism),
		MemoryLimitBytes: opts.memoryLimit,
	})

	results := make([]SweepResult, len(ks))
	g, gctx := errgroup.WithContext(ctx)

	for i, k := range ks {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			need := s.workingSet(k)
			if err := rc.AcquireMemory(gctx, need); err != nil {
				return err
			}
			defer rc.ReleaseMemory(need)

			run := s.fork()
			res, err := run.Compute(gctx, k)
			if err != nil {
				return err
			}
			_, inertia := run.Inertia()
			results[i] = SweepResult{
				Requested: k,
				Result:    res,
				Centroids: run.Centroids(),
				Inertia:   inertia,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fork returns a Set sharing the points of s with its own ownership state.
func (s *Set) fork() *Set {
	return &Set{
		opts:      s.opts,
		epsilon:   s.epsilon,
		hardLimit: s.hardLimit,
		store:     s.store.Clone(),
		dropped:   s.dropped,
	}
}

// workingSet estimates the bytes a Compute with k clusters allocates beyond
// the shared points: one owner handle per point, and per cluster the
// centroid, its snapshot and the bookkeeping fields.
func (s *Set) workingSet(k int) int64 {
	n := int64(s.Len())
	k = max(0, min(k, s.Len()))
	return n*8 + int64(k)*(int64(s.Dimension())*8*2+48)
}
