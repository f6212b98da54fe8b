// Package pipeline runs one complete ranking job: load the edge file, iterate
// PageRank, write both top-K reports atomically, then record the run in the
// manifest, history and telemetry sinks that are enabled.
//
// RunToConvergence and RunFixed are the two entry points. Every parameter is
// checked before the input is opened, and the input is fully loaded and
// ranked before any output file is touched.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/linkrank/internal/graph"
	"github.com/papapumpkin/linkrank/internal/history"
	"github.com/papapumpkin/linkrank/internal/manifest"
	"github.com/papapumpkin/linkrank/internal/rank"
	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/telemetry"
)

// ErrInvalidParams is wrapped by every parameter error.
var ErrInvalidParams = errors.New("invalid run parameters")

// DefaultMaxIterations caps convergence mode when Params.MaxIterations is 0.
const DefaultMaxIterations = 10000

// Run modes as recorded in manifests and history.
const (
	ModeConvergence = "convergence"
	ModeFixed       = "fixed"
)

// Params are the inputs shared by both entry points.
type Params struct {
	Input       string
	Teleport    float64
	TopK        int
	InlinksOut  string
	PageRankOut string

	// MaxIterations caps convergence mode. Zero means DefaultMaxIterations.
	MaxIterations int
	// Manifest writes <PageRankOut>.toml after the reports.
	Manifest bool

	Logger    zerolog.Logger
	Telemetry *telemetry.Emitter // nil disables telemetry
	History   *history.Store     // nil disables run history
}

// Outcome is everything a finished run produced.
type Outcome struct {
	RunID    string
	Mode     string
	Nodes    int
	Edges    int
	Dangling int
	Result   *rank.Result
	Inlinks  []report.InlinkRow
	Scores   []report.ScoreRow

	// ManifestPath is empty when no manifest was written.
	ManifestPath string
	Started      time.Time
	Finished     time.Time
}

// Top returns the highest-ranked node and its score, or "" if there are no rows.
func (o *Outcome) Top() (string, float64) {
	if len(o.Scores) == 0 {
		return "", 0
	}
	return o.Scores[0].Name, o.Scores[0].Score
}

// RunToConvergence iterates until the L2 distance between consecutive rank
// vectors drops below tolerance, or MaxIterations is reached.
func RunToConvergence(ctx context.Context, p Params, tolerance float64) (*Outcome, error) {
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return nil, fmt.Errorf("%w: tolerance must be > 0, got %v", ErrInvalidParams, tolerance)
	}
	if p.MaxIterations < 0 {
		return nil, fmt.Errorf("%w: max iterations must be >= 0, got %d", ErrInvalidParams, p.MaxIterations)
	}
	limit := p.MaxIterations
	if limit == 0 {
		limit = DefaultMaxIterations
	}
	return run(ctx, p, rank.Convergence{Tolerance: tolerance, MaxIterations: limit})
}

// RunFixed iterates exactly n times.
func RunFixed(ctx context.Context, p Params, n int) (*Outcome, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: iteration count must be > 0, got %d", ErrInvalidParams, n)
	}
	return run(ctx, p, rank.FixedCount{N: n})
}

func (p Params) validate() error {
	switch {
	case p.Input == "":
		return fmt.Errorf("%w: input path is empty", ErrInvalidParams)
	case p.InlinksOut == "":
		return fmt.Errorf("%w: inlinks output path is empty", ErrInvalidParams)
	case p.PageRankOut == "":
		return fmt.Errorf("%w: pagerank output path is empty", ErrInvalidParams)
	case p.InlinksOut == p.PageRankOut:
		return fmt.Errorf("%w: both reports would be written to %s", ErrInvalidParams, p.InlinksOut)
	case !(p.Teleport > 0 && p.Teleport < 1):
		return fmt.Errorf("%w: teleport must be in (0, 1), got %v", ErrInvalidParams, p.Teleport)
	case p.TopK <= 0:
		return fmt.Errorf("%w: top-k must be > 0, got %d", ErrInvalidParams, p.TopK)
	}
	return nil
}

func run(ctx context.Context, p Params, policy rank.StoppingPolicy) (*Outcome, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	out := &Outcome{
		RunID:   telemetry.NewRunID(),
		Mode:    modeOf(policy),
		Started: time.Now(),
	}
	log := p.Logger.With().Str("run", out.RunID).Logger()
	r := &recorder{em: p.Telemetry, runID: out.RunID, log: log}

	r.emit(telemetry.KindRunStart, 0, map[string]any{
		"input":    p.Input,
		"mode":     out.Mode,
		"policy":   policy.String(),
		"teleport": p.Teleport,
		"top_k":    p.TopK,
	})

	if err := execute(ctx, p, policy, out, r); err != nil {
		r.emit(telemetry.KindRunFailed, 0, map[string]any{"error": err.Error()})
		return nil, err
	}

	top, score := out.Top()
	r.emit(telemetry.KindRunDone, out.Result.Iterations, map[string]any{
		"distance":  out.Result.Distance,
		"converged": out.Result.Converged,
		"top_node":  top,
		"top_score": score,
		"elapsed":   out.Finished.Sub(out.Started).String(),
	})
	log.Info().
		Int("iterations", out.Result.Iterations).
		Float64("distance", out.Result.Distance).
		Bool("converged", out.Result.Converged).
		Str("top", top).
		Msg("run complete")
	return out, nil
}

func execute(ctx context.Context, p Params, policy rank.StoppingPolicy, out *Outcome, r *recorder) error {
	log := r.log

	g, err := graph.LoadFile(p.Input)
	if err != nil {
		return err
	}
	out.Nodes, out.Edges, out.Dangling = g.Len(), g.Edges(), len(g.Dangling())
	log.Info().
		Str("input", p.Input).
		Int("nodes", out.Nodes).
		Int("edges", out.Edges).
		Int("dangling", out.Dangling).
		Msg("graph loaded")

	res, err := rank.Iterate(ctx, g, rank.Options{
		Teleport: p.Teleport,
		Policy:   policy,
		Logger:   log,
		OnStep: func(s rank.StepStats) {
			r.emit(telemetry.KindIteration, s.Iteration, map[string]float64{
				"distance":      s.Distance,
				"dangling_mass": s.DanglingMass,
			})
		},
	})
	if err != nil {
		return err
	}
	out.Result = res
	log.Info().
		Str("policy", policy.String()).
		Int("iterations", res.Iterations).
		Float64("rank_sum", res.Sum()).
		Msg("ranking finished")

	if out.Inlinks, err = report.TopInlinks(g, p.TopK); err != nil {
		return err
	}
	if out.Scores, err = report.TopScores(g, res.Ranks, p.TopK); err != nil {
		return err
	}

	if err := writeReports(p, out); err != nil {
		return err
	}
	log.Info().
		Str("inlinks", p.InlinksOut).
		Str("pagerank", p.PageRankOut).
		Int("rows", len(out.Scores)).
		Msg("reports written")

	out.Finished = time.Now()

	if p.Manifest {
		path := manifest.PathFor(p.PageRankOut)
		if err := manifest.Save(path, buildManifest(p, policy, out)); err != nil {
			return err
		}
		out.ManifestPath = path
	}

	if p.History != nil {
		if err := p.History.Record(ctx, historyRun(p, policy, out)); err != nil {
			return err
		}
	}
	return nil
}

// writeReports writes the inlinks report, then the PageRank report. If the
// second write fails the first is removed so the pair never disagrees.
func writeReports(p Params, out *Outcome) error {
	err := report.WriteFileAtomic(p.InlinksOut, func(w io.Writer) error {
		return report.WriteInlinks(w, out.Inlinks)
	})
	if err != nil {
		return err
	}

	err = report.WriteFileAtomic(p.PageRankOut, func(w io.Writer) error {
		return report.WriteScores(w, out.Scores)
	})
	if err != nil {
		os.Remove(p.InlinksOut)
		return err
	}
	return nil
}

func modeOf(policy rank.StoppingPolicy) string {
	if _, ok := policy.(rank.FixedCount); ok {
		return ModeFixed
	}
	return ModeConvergence
}
