// Package optimize holds the offline simulated-annealing tuner used to fit
// scoring and distance coefficients against labeled sample pages. It knows
// nothing about the DOM; callers supply the solution space.
package optimize

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Problem is the solution space the annealer searches.
type Problem[S any] interface {
	// InitialSolution returns the starting point.
	InitialSolution() S

	// RandomTransition returns a random neighbor of a solution.
	RandomTransition(s S) S

	// SolutionCost scores a solution; lower is better.
	SolutionCost(s S) float64
}

// Parameters drive the annealing schedule. See DefaultParameters for the
// stock values.
type Parameters struct {
	InitialTemperature float64 `yaml:"initialTemperature"`
	CoolingSteps       int     `yaml:"coolingSteps"`
	CoolingFraction    float64 `yaml:"coolingFraction"`
	StepsPerTemp       int     `yaml:"stepsPerTemp"`
	Boltzmann          float64 `yaml:"boltzmann"`
}

// DefaultParameters returns the stock annealing schedule.
func DefaultParameters() Parameters {
	return Parameters{
		InitialTemperature: 5000,
		CoolingSteps:       5000,
		CoolingFraction:    0.95,
		StepsPerTemp:       1000,
		Boltzmann:          1.3806485279e-23,
	}
}

// Annealer runs simulated annealing over a Problem.
type Annealer[S any] struct {
	problem Problem[S]
	params  Parameters
	log     *zap.Logger
	rand    *rand.Rand
}

// Option configures an Annealer.
type Option func(*settings)

type settings struct {
	params Parameters
	log    *zap.Logger
	rand   *rand.Rand
}

// WithParameters replaces the annealing schedule.
func WithParameters(p Parameters) Option {
	return func(s *settings) { s.params = p }
}

// WithLogger sets the progress logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithRand sets the random source, pinning runs for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) { s.rand = r }
}

// New builds an annealer for a problem.
func New[S any](p Problem[S], opts ...Option) *Annealer[S] {
	s := settings{
		params: DefaultParameters(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Annealer[S]{problem: p, params: s.params, log: s.log, rand: s.rand}
}

// Run anneals and returns the best solution seen with its cost.
//
// Each cooling step draws up to StepsPerTemp neighbors: a cheaper neighbor
// is always accepted, a costlier one with probability
// exp((current−new)/(Boltzmann·temperature)). The inner loop exits after
// any iteration that leaves the current cost equal to its value at the start
// of the cooling step, then the temperature cools by CoolingFraction.
func (a *Annealer[S]) Run() (S, float64) {
	temperature := a.params.InitialTemperature
	current := a.problem.InitialSolution()
	currentCost := a.problem.SolutionCost(current)
	best := current
	bestCost := currentCost

	for i := 0; i < a.params.CoolingSteps; i++ {
		startCost := currentCost
		for j := 0; j < a.params.StepsPerTemp; j++ {
			candidate := a.problem.RandomTransition(current)
			candidateCost := a.problem.SolutionCost(candidate)
			if candidateCost < currentCost {
				current = candidate
				currentCost = candidateCost
				if candidateCost < bestCost {
					best = candidate
					bestCost = candidateCost
					a.log.Info("new best solution",
						zap.Float64("cost", bestCost),
						zap.Int("coolingStep", i),
						zap.Any("solution", best))
				}
			} else {
				merit := math.Exp((currentCost - candidateCost) /
					(a.params.Boltzmann * temperature))
				if merit > a.rand.Float64() {
					current = candidate
					currentCost = candidateCost
				}
			}
			// Not moving at this temperature; cool down.
			if currentCost == startCost {
				break
			}
		}
		temperature *= a.params.CoolingFraction
	}
	return best, bestCost
}
