package kmeans

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/kmeans/internal/pointstore"
)

// State is a controller state.
type State int

const (
	StateInitializing State = iota
	StateIterating
	StateConverged
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateIterating:
		return "iterating"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// DefaultHardLimit bounds the number of passes when no limit is configured.
const DefaultHardLimit = math.MaxUint32

// Pass describes one completed assign/recompute pass.
type Pass struct {
	// Index is the 1-based pass number.
	Index int
	// Moved is the number of points that changed cluster.
	Moved int
	// Delta is the largest squared centroid movement of the pass.
	Delta float64
}

// Config configures a Run.
type Config struct {
	// K is the requested cluster count. It is clamped to [1, N].
	K int
	// Epsilon is the convergence tolerance on the change of Delta between passes.
	Epsilon float64
	// HardLimit is the maximum number of passes.
	HardLimit uint32
	// Lazy enables the dirty-flag recomputation fast path.
	Lazy bool
	// OnPass, if set, is called after every pass.
	OnPass func(Pass)
}

// Result is the terminal outcome of a Run.
type Result struct {
	// State is StateConverged or StateExhausted.
	State State
	// K is the effective cluster count after clamping; 0 for a no-op run.
	K int
	// Passes is the number of completed passes.
	Passes int
	// Delta is the largest centroid movement of the last pass.
	Delta float64
}

// Run seeds a new cluster set from store and iterates until the change of the
// maximum centroid movement between two passes is at most |Epsilon|, no
// cluster changed in the last pass, or HardLimit passes have run.
//
// The context is checked between passes; a pass is never interrupted.
func Run(ctx context.Context, store *pointstore.Store, cfg Config) (*Set, Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := Seed(store, cfg.K)
	res := Result{State: StateInitializing, K: s.Len()}
	if s.Len() == 0 {
		res.State = StateConverged
		return s, res, nil
	}

	eps := math.Abs(cfg.Epsilon)
	deltaPrev, deltaCurr := math.Inf(1), 0.0
	remaining := cfg.HardLimit

	res.State = StateIterating
	for math.Abs(deltaCurr-deltaPrev) > eps && remaining > 0 && s.AnyChanged() {
		if err := ctx.Err(); err != nil {
			return s, res, err
		}

		deltaPrev = deltaCurr
		s.ClearChanged()
		moved := Assign(store, s)
		deltaCurr = Recompute(store, s, cfg.Lazy)
		remaining--

		res.Passes++
		res.Delta = deltaCurr
		if cfg.OnPass != nil {
			cfg.OnPass(Pass{Index: res.Passes, Moved: moved, Delta: deltaCurr})
		}
	}

	if remaining == 0 && math.Abs(deltaCurr-deltaPrev) > eps && s.AnyChanged() {
		res.State = StateExhausted
	} else {
		res.State = StateConverged
	}

	return s, res, nil
}
