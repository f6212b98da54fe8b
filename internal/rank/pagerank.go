// Package rank runs the PageRank power iteration over an integer-indexed
// link graph.
//
// Each step computes, for every node v,
//
//	next[v] = λ/N + (1-λ) * (Σ prev[u]/outdeg(u) over edges u→v + D)
//
// where λ is the teleportation weight and D is the rank mass of all dangling
// nodes divided by N. Generations are double-buffered: a step reads only the
// previous vector and writes only the next one.
package rank

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidOptions is returned when iteration parameters are out of range.
var ErrInvalidOptions = errors.New("invalid rank options")

// ErrEmptyGraph is returned when the graph has no nodes.
var ErrEmptyGraph = errors.New("cannot rank an empty graph")

// DefaultTeleport is the default teleportation weight λ.
const DefaultTeleport = 0.2

// Graph is the read-only view of a link graph the iterator consumes.
type Graph interface {
	Len() int
	OutDegree(id int) int
	Inlinks(id int) []int
	Dangling() []int
}

// StepStats carries per-iteration statistics passed to Options.OnStep.
type StepStats struct {
	Iteration    int     // 1-based
	Distance     float64 // L2 distance between the previous and new vector
	DanglingMass float64 // dangling rank mass divided by N, before damping
}

// Options configures Iterate.
type Options struct {
	// Teleport is λ, the probability of a uniform random jump. Must be in (0, 1).
	Teleport float64
	Policy   StoppingPolicy
	Logger   zerolog.Logger
	// OnStep, if set, is called after every completed step.
	OnStep func(StepStats)
}

// DefaultOptions returns λ=0.2 with convergence at τ=0.005, capped at
// 10000 steps, and logging disabled.
func DefaultOptions() Options {
	return Options{
		Teleport: DefaultTeleport,
		Policy:   Convergence{Tolerance: 0.005, MaxIterations: 10000},
		Logger:   zerolog.Nop(),
	}
}

// Validate reports a configuration error before any iteration starts.
func (o Options) Validate() error {
	if !(o.Teleport > 0 && o.Teleport < 1) {
		return fmt.Errorf("%w: teleport must be in (0, 1), got %v", ErrInvalidOptions, o.Teleport)
	}
	if o.Policy == nil {
		return fmt.Errorf("%w: no stopping policy", ErrInvalidOptions)
	}
	return o.Policy.validate()
}

// Result is the final rank vector plus how the run ended.
type Result struct {
	// Ranks is indexed by node id and sums to 1.
	Ranks []float64
	// Iterations is the number of steps actually run.
	Iterations int
	// Distance is the L2 distance of the last step, 0 if no step ran.
	Distance float64
	// Converged is true when a Convergence policy met its tolerance. It is
	// always false for FixedCount.
	Converged bool
}

// Sum returns the total rank mass.
func (r *Result) Sum() float64 {
	return floats.Sum(r.Ranks)
}

// Iterate runs the power iteration on g until opts.Policy says stop.
// The context is checked between steps.
func Iterate(ctx context.Context, g Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	n := g.Len()
	if n == 0 {
		return nil, ErrEmptyGraph
	}

	prev := make([]float64, n)
	next := make([]float64, n)
	floats.AddConst(1/float64(n), prev)

	log := opts.Logger
	res := &Result{}
	limit := opts.Policy.limit()
	for res.Iterations < limit {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rank: stopped after %d iterations: %w", res.Iterations, err)
		}

		dist, dangling := step(g, opts.Teleport, prev, next)
		prev, next = next, prev
		res.Iterations++
		res.Distance = dist

		log.Debug().
			Int("iteration", res.Iterations).
			Float64("distance", dist).
			Float64("dangling_mass", dangling).
			Msg("pagerank step")
		if opts.OnStep != nil {
			opts.OnStep(StepStats{Iteration: res.Iterations, Distance: dist, DanglingMass: dangling})
		}

		if opts.Policy.converged(dist) {
			res.Converged = true
			break
		}
	}

	if _, ok := opts.Policy.(Convergence); ok && !res.Converged {
		log.Warn().
			Int("iterations", res.Iterations).
			Float64("distance", res.Distance).
			Msg("pagerank stopped at iteration cap before converging")
	}

	res.Ranks = prev
	return res, nil
}

// Step computes one generation from prev into next and returns the L2
// distance between them. prev is not modified. Both slices must have
// length g.Len().
func Step(g Graph, teleport float64, prev, next []float64) float64 {
	dist, _ := step(g, teleport, prev, next)
	return dist
}

func step(g Graph, teleport float64, prev, next []float64) (distance, danglingMass float64) {
	nf := float64(len(prev))

	for _, d := range g.Dangling() {
		danglingMass += prev[d]
	}
	danglingMass /= nf

	base := teleport / nf
	follow := 1 - teleport
	for v := range next {
		var sum float64
		for _, u := range g.Inlinks(v) {
			sum += prev[u] / float64(g.OutDegree(u))
		}
		next[v] = base + follow*(sum+danglingMass)
	}

	return floats.Distance(prev, next, 2), danglingMass
}
