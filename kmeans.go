package kmeans

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/kmeans/blobstore"
	"github.com/hupe1980/kmeans/codec"
	"github.com/hupe1980/kmeans/distance"
	"github.com/hupe1980/kmeans/internal/kmeans"
	"github.com/hupe1980/kmeans/internal/pointstore"
)

// State is the terminal state of a Compute.
type State = kmeans.State

const (
	// StateConverged means the centroid movement settled within epsilon or no
	// cluster changed during the last pass.
	StateConverged = kmeans.StateConverged
	// StateExhausted means the hard limit was reached before convergence.
	StateExhausted = kmeans.StateExhausted
)

// DefaultHardLimit is the pass limit used when WithHardLimit is not given.
const DefaultHardLimit uint32 = kmeans.DefaultHardLimit

// Result describes the outcome of a Compute.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// State is StateConverged or StateExhausted.
	State State
	// K is the effective cluster count after clamping to [1, Len()].
	// It is 0 when k <= 0 or the set is empty.
	K int
	// Passes is the number of assign/recompute passes.
	Passes int
	// Delta is the largest squared centroid movement of the last pass.
	Delta float64
}

// Cluster is a snapshot of one cluster after Compute.
type Cluster struct {
	Centroid []float64
	Count    int
	// Members holds the indices (in Points order) of the points owned by
	// the cluster.
	Members *roaring.Bitmap
}

// Set is a collection of points together with the clusters of its last
// Compute.
//
// Points are kept in ascending lexicographic order regardless of input order,
// which makes clustering deterministic for a given multiset of points.
//
// Set is not safe for concurrent use.
type Set struct {
	opts      options
	epsilon   float64
	hardLimit uint32

	store    *pointstore.Store
	dropped  int
	clusters *kmeans.Set
	members  []*roaring.Bitmap
}

// New creates a Set from in-memory points. Points are copied.
//
// The first non-empty point fixes the dimension. Points of another length are
// dropped, or rejected with *ErrDimensionMismatch in strict mode.
func New(points [][]float64, optFns ...Option) (*Set, error) {
	s := newSet(optFns)
	start := time.Now()

	for i, p := range points {
		if err := s.add(p, i+1); err != nil {
			s.opts.logger.LogIngest(context.Background(), s.store.Len(), s.dropped, s.store.Dimension(), err)
			return nil, err
		}
	}

	s.recordIngest(context.Background(), start)
	return s, nil
}

// Read creates a Set from delimited text: one point per line, fields
// separated by delim. Blank lines are skipped, and so are lines holding only
// whitespace: they never become a zero point.
//
// Fields are parsed leniently: the longest numeric prefix is used and a field
// without one reads as 0. In strict mode such a field fails with
// *ErrMalformedField.
func Read(r io.Reader, delim rune, optFns ...Option) (*Set, error) {
	return read(context.Background(), r, delim, optFns)
}

// Load creates a Set from a blob in store. Blobs ending in .zst or .lz4 are
// decompressed transparently.
func Load(ctx context.Context, store blobstore.BlobStore, name string, delim rune, optFns ...Option) (*Set, error) {
	rc, err := blobstore.NewReader(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	s, err := read(ctx, rc, delim, optFns)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return s, nil
}

func read(ctx context.Context, r io.Reader, delim rune, optFns []Option) (*Set, error) {
	if err := validDelimiter(delim); err != nil {
		return nil, err
	}

	s := newSet(optFns)
	start := time.Now()

	cr := codec.NewReader(r, delim)
	cr.Strict = s.opts.strict
	for {
		p, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			err = translateError(err, cr.Line())
		} else {
			err = s.add(p, cr.Line())
		}
		if err != nil {
			s.opts.logger.LogIngest(ctx, s.store.Len(), s.dropped, s.store.Dimension(), err)
			return nil, err
		}
	}

	s.recordIngest(ctx, start)
	return s, nil
}

func newSet(optFns []Option) *Set {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Set{
		opts:      opts,
		epsilon:   opts.epsilon,
		hardLimit: opts.hardLimit,
		store:     pointstore.New(),
	}
}

func (s *Set) add(p []float64, line int) error {
	if err := s.store.Add(p); err != nil {
		if s.opts.strict {
			return translateError(err, line)
		}
		s.dropped++
	}
	return nil
}

func (s *Set) recordIngest(ctx context.Context, start time.Time) {
	s.opts.logger.LogIngest(ctx, s.store.Len(), s.dropped, s.store.Dimension(), nil)
	s.opts.metricsCollector.RecordIngest(s.store.Len(), s.dropped, time.Since(start))
}

func validDelimiter(delim rune) error {
	if delim == '\n' || delim == '\r' || delim == utf8.RuneError || !utf8.ValidRune(delim) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, delim)
	}
	return nil
}

// SetEpsilon sets the convergence tolerance used by subsequent Computes.
// Only its magnitude is used.
func (s *Set) SetEpsilon(eps float64) { s.epsilon = eps }

// Epsilon returns the convergence tolerance.
func (s *Set) Epsilon() float64 { return s.epsilon }

// SetHardLimit sets the maximum number of passes of subsequent Computes.
func (s *Set) SetHardLimit(limit uint32) { s.hardLimit = limit }

// HardLimit returns the maximum number of passes.
func (s *Set) HardLimit() uint32 { return s.hardLimit }

// Compute partitions the points into k clusters, replacing the clusters of
// any previous Compute. k is clamped to the number of points; k <= 0 or an
// empty set is a no-op that yields no clusters.
//
// The only error is ctx's, checked between passes. The clusters reached so
// far stay available after a cancellation.
func (s *Set) Compute(ctx context.Context, k int) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	res := Result{RunID: uuid.NewString()}
	logger := s.opts.logger.WithRunID(res.RunID).WithK(k).
		WithCount(s.Len()).
		WithDimension(s.Dimension())
	start := time.Now()

	clusters, r, err := kmeans.Run(ctx, s.store, kmeans.Config{
		K:         k,
		Epsilon:   s.epsilon,
		HardLimit: s.hardLimit,
		Lazy:      s.opts.lazy,
		OnPass: func(p kmeans.Pass) {
			logger.LogPass(ctx, p.Index, p.Moved, p.Delta)
			s.opts.metricsCollector.RecordPass(p.Moved, p.Delta)
		},
	})
	s.clusters = clusters
	s.members = nil

	res.State = r.State
	res.K = r.K
	res.Passes = r.Passes
	res.Delta = r.Delta

	s.opts.metricsCollector.RecordCompute(res, time.Since(start), err)
	logger.LogCompute(ctx, res, err)
	return res, err
}

// Len returns the number of stored points.
func (s *Set) Len() int { return s.store.Len() }

// Dimension returns the point dimension, or 0 for an empty set.
func (s *Set) Dimension() int { return s.store.Dimension() }

// Dropped returns the number of points dropped during ingestion because of a
// mismatched dimension.
func (s *Set) Dropped() int { return s.dropped }

// K returns the number of clusters of the last Compute.
func (s *Set) K() int {
	if s.clusters == nil {
		return 0
	}
	return s.clusters.Len()
}

// Points returns a copy of the stored points in ascending lexicographic order.
func (s *Set) Points() [][]float64 {
	points := make([][]float64, s.store.Len())
	for i, p := range s.store.Points() {
		points[i] = slices.Clone(p)
	}
	return points
}

// Centroids returns a copy of the centroids of the last Compute.
func (s *Set) Centroids() [][]float64 {
	if s.clusters == nil {
		return nil
	}
	return s.clusters.Centroids()
}

// Members returns the indices (in Points order) of the points owned by
// cluster i, or nil if i is out of range. The bitmap is a copy.
func (s *Set) Members(i int) *roaring.Bitmap {
	if i < 0 || i >= s.K() {
		return nil
	}
	return s.memberships()[i].Clone()
}

// Clusters returns a snapshot of every cluster of the last Compute.
func (s *Set) Clusters() []Cluster {
	k := s.K()
	if k == 0 {
		return nil
	}

	members := s.memberships()
	out := make([]Cluster, k)
	for i := range out {
		c := s.clusters.At(i)
		out[i] = Cluster{
			Centroid: slices.Clone(c.Centroid),
			Count:    c.Count,
			Members:  members[i].Clone(),
		}
	}
	return out
}

func (s *Set) memberships() []*roaring.Bitmap {
	if s.members != nil || s.K() == 0 {
		return s.members
	}

	members := make([]*roaring.Bitmap, s.K())
	for i := range members {
		members[i] = roaring.New()
	}
	for i := 0; i < s.store.Len(); i++ {
		if owner := s.store.Owner(i); owner != pointstore.NoOwner {
			members[owner].Add(uint32(i))
		}
	}
	for _, m := range members {
		m.RunOptimize()
	}

	s.members = members
	return members
}

// Nearest returns the index of the centroid closest to p and the squared
// distance to it. Ties go to the lowest index.
func (s *Set) Nearest(p []float64) (int, float64, error) {
	if s.K() == 0 {
		return -1, 0, nil
	}
	if len(p) != s.Dimension() {
		return -1, 0, &ErrDimensionMismatch{Expected: s.Dimension(), Actual: len(p)}
	}
	i, d := distance.Nearest(p, s.clusters.Centroids())
	return i, d, nil
}

// Inertia returns the sum of squared distances of the points to their
// centroid, per cluster and in total.
func (s *Set) Inertia() ([]float64, float64) {
	if s.K() == 0 {
		return nil, 0
	}
	return kmeans.Inertia(s.store, s.clusters)
}

// WriteCentroids writes one row per centroid, coordinates separated by delim.
// Rows are separated by newlines; there is no trailing newline.
func (s *Set) WriteCentroids(w io.Writer, delim rune) error {
	if err := validDelimiter(delim); err != nil {
		return err
	}
	cw := codec.NewWriter(w, delim)
	if err := cw.WriteRows(s.Centroids()); err != nil {
		return err
	}
	return cw.Flush()
}

// WriteClusters writes every cluster as a header line of designator followed
// by the centroid row, then one line per member point.
func (s *Set) WriteClusters(w io.Writer, delim rune, designator string) error {
	if err := validDelimiter(delim); err != nil {
		return err
	}

	cw := codec.NewWriter(w, delim)
	for i, m := range s.memberships() {
		c := s.clusters.At(i)
		if err := cw.WriteLine(designator + codec.FormatRow(c.Centroid, delim)); err != nil {
			return err
		}
		if err := s.writeMembers(cw, m); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// BurstClusters writes the member points of every cluster to a separate blob
// named <prefix><index>.dat.
func (s *Set) BurstClusters(ctx context.Context, store blobstore.WritableStore, prefix string, delim rune) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validDelimiter(delim); err != nil {
		return err
	}

	for i, m := range s.memberships() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fmt.Sprintf("%s%d.dat", prefix, i)
		if err := s.burst(ctx, store, name, m, delim); err != nil {
			return fmt.Errorf("burst %s: %w", name, err)
		}
	}
	return nil
}

func (s *Set) burst(ctx context.Context, store blobstore.WritableStore, name string, m *roaring.Bitmap, delim rune) error {
	wc, err := blobstore.NewWriter(ctx, store, name)
	if err != nil {
		return err
	}

	cw := codec.NewWriter(wc, delim)
	err = s.writeMembers(cw, m)
	if err == nil {
		err = cw.Flush()
	}
	if err != nil {
		_ = wc.Abort()
		return err
	}
	return wc.Close()
}

func (s *Set) writeMembers(cw *codec.Writer, m *roaring.Bitmap) error {
	it := m.Iterator()
	for it.HasNext() {
		if err := cw.WriteRow(s.store.Point(int(it.Next()))); err != nil {
			return err
		}
	}
	return nil
}

// String returns the centroids as comma-separated rows.
func (s *Set) String() string {
	var b strings.Builder
	_ = s.WriteCentroids(&b, ',')
	return b.String()
}
