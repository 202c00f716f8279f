// Package optimise drives simulated annealing over a packing state's
// basis vector: Metropolis acceptance, geometric temperature decay, and
// an adaptive step size targeting a fixed rejection rate.
package optimise

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/irfansharif/wyckoff/internal/packing"
)

var debugLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("WYCKOFF_DEBUG") == "1" {
		debugLogger = log.New(os.Stdout, "[optimise] ", log.Ltime|log.Lmsgprefix)
	}
}

// Config holds the annealing schedule. The zero value is not useful;
// start from DefaultConfig.
type Config struct {
	// KTStart is the initial temperature, the scale of how much worse a
	// move can be and still be accepted.
	KTStart float64
	// KTFinish is the target temperature at the end of the step budget.
	// The per-epoch decay ratio is derived from it unless KTRatio is set
	// directly.
	KTFinish float64
	// KTRatio, when positive, is the per-epoch fraction by which the
	// temperature decays (kt *= 1 - KTRatio).
	KTRatio float64
	// MaxStepSize bounds a single Monte-Carlo move, as a fraction of the
	// mutated parameter's range.
	MaxStepSize float64
	// Steps is the total number of Monte-Carlo trials.
	Steps int
	// InnerSteps is the number of trials per epoch; temperature and step
	// size adjust between epochs. Clamped to Steps.
	InnerSteps int
	// Seed makes the run deterministic.
	Seed int64
	// Convergence, when positive, enables early exit: if the score
	// improves by less than this for 5 consecutive epochs the run stops.
	Convergence float64
}

// DefaultConfig returns the standard annealing schedule.
func DefaultConfig() Config {
	return Config{
		KTStart:     0.1,
		KTFinish:    0.001,
		MaxStepSize: 0.01,
		Steps:       1000,
		InnerSteps:  1000,
	}
}

// Build derives the complete schedule from the configuration.
func (c Config) Build() *MCOptimiser {
	var ktRatio float64
	switch {
	case c.KTRatio > 0:
		ktRatio = 1 - c.KTRatio
	case c.KTFinish > 0 && c.KTStart > 0:
		ktRatio = math.Pow(c.KTFinish/c.KTStart, 1/float64(c.Steps))
	default:
		ktRatio = 0.1
	}

	inner := c.InnerSteps
	if inner > c.Steps {
		inner = c.Steps
	}
	return &MCOptimiser{
		ktStart:     c.KTStart,
		ktRatio:     ktRatio,
		maxStepSize: c.MaxStepSize,
		steps:       c.Steps,
		innerSteps:  inner,
		seed:        c.Seed,
		convergence: c.Convergence,
	}
}

// MCOptimiser runs one deterministic, single-threaded annealing pass.
type MCOptimiser struct {
	ktStart     float64
	ktRatio     float64
	maxStepSize float64
	steps       int
	innerSteps  int
	seed        int64
	convergence float64
}

// acceptance returns the Metropolis acceptance probability for a move
// from old to new at temperature kt. Non-worsening moves are always
// accepted; without the special case, kt = 0 and new == old would
// divide into a NaN and reject.
func (o *MCOptimiser) acceptance(new, old, kt float64) float64 {
	if new >= old {
		return 1
	}
	return math.Min(math.Exp((new-old)/kt), 1)
}

// OptimiseState anneals the state in place and returns its final score.
// The state must start from a scorable configuration; an unscorable
// initial or final state is an invariant violation, not a retryable
// condition.
func (o *MCOptimiser) OptimiseState(state *packing.State) (float64, error) {
	current, err := state.Score()
	if err != nil {
		return 0, fmt.Errorf("initial configuration is unscorable: %w", err)
	}

	rng := rand.New(rand.NewSource(o.seed))
	basis := state.GenerateBasis()
	if len(basis) == 0 {
		return 0, fmt.Errorf("state has no degrees of freedom")
	}

	kt := o.ktStart
	stepRatio := 1.
	rejections := 0
	convergenceCount := 0

	for epoch := 1; epoch <= o.steps/o.innerSteps; epoch++ {
		epochStart := current
		epochRejections := 0

		for i := 0; i < o.innerSteps; i++ {
			index := rng.Intn(len(basis))
			basis[index].SetSampled(rng, o.maxStepSize*stepRatio)

			proposed, err := state.Score()
			switch {
			case err == nil && proposed > current:
				current = proposed
			case err == nil && rng.Float64() < o.acceptance(proposed, current, kt):
				current = proposed
			default:
				// Rejected, an unscorable state included. Undo the one
				// mutated entry.
				basis[index].Reset()
				epochRejections++
			}
		}
		rejections += epochRejections
		kt *= o.ktRatio

		if o.convergence > 0 {
			if current-epochStart < o.convergence {
				convergenceCount++
				if convergenceCount > 5 {
					debugLogger.Printf("converged after %d steps, last improvement %v",
						epoch*o.innerSteps, current-epochStart)
					return current, nil
				}
			} else {
				convergenceCount = 0
			}
		}

		// Rescale toward a 75% rejection rate: half of all moves grow
		// the cell and are nearly always rejected near the optimum, so
		// of the useful half we aim to accept half. The floor stops the
		// step collapsing entirely.
		if stepRatio > 1e-4 {
			stepRatio *= float64(o.innerSteps) / float64(epochRejections+1)
		}
	}
	debugLogger.Printf("score: %.4f, rejected fraction: %.2f%%",
		current, 100*float64(rejections)/float64(o.steps))

	if _, err := state.Score(); err != nil {
		return 0, fmt.Errorf("final configuration is unscorable: %w", err)
	}
	return current, nil
}

// Replicates anneals independent clones of the state in parallel, one
// per replicate seed, and returns the best. Each replicate runs a short
// zero-temperature settle, the full schedule, then a zero-temperature
// polish. Workers share nothing but the immutable starting state.
func Replicates(ctx context.Context, base *packing.State, cfg Config, replicates int) (*packing.State, float64, error) {
	if replicates < 1 {
		return nil, 0, fmt.Errorf("need at least one replicate, got %d", replicates)
	}

	states := make([]*packing.State, replicates)
	scores := make([]float64, replicates)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < replicates; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			state := base.Clone()

			settle := cfg
			settle.KTStart = 0
			settle.Steps = 100
			settle.Convergence = 0
			settle.Seed = int64(i)
			if _, err := settle.Build().OptimiseState(state); err != nil {
				return fmt.Errorf("replicate %d settle: %w", i, err)
			}

			anneal := cfg
			anneal.Seed = int64(i)
			if _, err := anneal.Build().OptimiseState(state); err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}

			polish := cfg
			polish.KTStart = 0
			polish.Seed = int64(i)
			score, err := polish.Build().OptimiseState(state)
			if err != nil {
				return fmt.Errorf("replicate %d polish: %w", i, err)
			}

			states[i] = state
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	best := 0
	for i := 1; i < replicates; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return states[best], scores[best], nil
}
