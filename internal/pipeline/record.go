package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/papapumpkin/linkrank/internal/history"
	"github.com/papapumpkin/linkrank/internal/manifest"
	"github.com/papapumpkin/linkrank/internal/rank"
	"github.com/papapumpkin/linkrank/internal/telemetry"
)

// recorder forwards run events to telemetry. A failed emit is logged and
// does not fail the run.
type recorder struct {
	em    *telemetry.Emitter
	runID string
	log   zerolog.Logger
}

func (r *recorder) emit(kind string, iteration int, data any) {
	err := r.em.Emit(telemetry.Event{
		Kind:      kind,
		RunID:     r.runID,
		Iteration: iteration,
		Data:      data,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("kind", kind).Msg("telemetry emit failed")
	}
}

func buildManifest(p Params, policy rank.StoppingPolicy, out *Outcome) *manifest.Manifest {
	top, score := out.Top()
	m := &manifest.Manifest{
		RunID:      out.RunID,
		Input:      p.Input,
		StartedAt:  out.Started,
		FinishedAt: out.Finished,
		Params: manifest.Params{
			Mode:     out.Mode,
			Teleport: p.Teleport,
			TopK:     p.TopK,
		},
		Graph: manifest.Graph{
			Nodes:    out.Nodes,
			Edges:    out.Edges,
			Dangling: out.Dangling,
		},
		Result: manifest.Result{
			Iterations: out.Result.Iterations,
			Distance:   out.Result.Distance,
			Converged:  out.Result.Converged,
			RankSum:    out.Result.Sum(),
			TopNode:    top,
			TopScore:   score,
		},
		Outputs: manifest.Outputs{
			Inlinks:  p.InlinksOut,
			PageRank: p.PageRankOut,
		},
	}
	switch pol := policy.(type) {
	case rank.Convergence:
		m.Params.Tolerance = pol.Tolerance
		m.Params.MaxIterations = pol.MaxIterations
	case rank.FixedCount:
		m.Params.Steps = pol.N
	}
	return m
}

func historyRun(p Params, policy rank.StoppingPolicy, out *Outcome) history.Run {
	top, score := out.Top()
	r := history.Run{
		ID:         out.RunID,
		Input:      p.Input,
		Mode:       out.Mode,
		Teleport:   p.Teleport,
		Iterations: out.Result.Iterations,
		Distance:   out.Result.Distance,
		Converged:  out.Result.Converged,
		Nodes:      out.Nodes,
		Edges:      out.Edges,
		TopNode:    top,
		TopScore:   score,
		StartedAt:  out.Started,
		FinishedAt: out.Finished,
	}
	switch pol := policy.(type) {
	case rank.Convergence:
		r.Tolerance = pol.Tolerance
	case rank.FixedCount:
		r.Steps = pol.N
	}
	return r
}
