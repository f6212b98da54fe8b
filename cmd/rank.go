package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/history"
	"github.com/papapumpkin/linkrank/internal/pipeline"
	"github.com/papapumpkin/linkrank/internal/telemetry"
	"github.com/papapumpkin/linkrank/internal/ui"
	"github.com/papapumpkin/linkrank/internal/watch"
)

var rankCmd = &cobra.Command{
	Use:   "rank [input [lambda [tau|\"exactly N\" [inlinks [pagerank [k]]]]]]",
	Short: "Compute PageRank and write the top-K reports",
	Long: `Loads the edge list, runs PageRank and writes two reports:
the top-K nodes by inbound link count and the top-K nodes by PageRank score.

The third positional argument is either a convergence tolerance (stop when
the L2 distance between consecutive rank vectors falls below it) or the
string "exactly N" to run exactly N iterations. Positional arguments take
precedence over flags, environment and config file.`,
	Args: cobra.MaximumNArgs(6),
	RunE: runRank,
}

// rankFlags maps each rank flag to its config key.
var rankFlags = map[string]string{
	"input":          "input",
	"teleport":       "teleport",
	"tolerance":      "tolerance",
	"iterations":     "iterations",
	"max-iterations": "max_iterations",
	"inlinks-out":    "inlinks_out",
	"pagerank-out":   "pagerank_out",
	"top-k":          "top_k",
	"telemetry":      "telemetry_path",
	"history-db":     "history_db",
	"manifest":       "manifest",
}

func init() {
	f := rankCmd.Flags()
	f.String("input", "links.srt.gz", "gzip edge list to rank")
	f.Float64("teleport", 0.2, "teleportation weight lambda, in (0, 1)")
	f.Float64("tolerance", 0.005, "L2 convergence tolerance")
	f.Int("iterations", 0, "run exactly this many iterations (0 runs to convergence)")
	f.Int("max-iterations", 10000, "iteration cap in convergence mode")
	f.String("inlinks-out", "inlinks.txt", "inbound-link report path")
	f.String("pagerank-out", "pagerank.txt", "PageRank report path")
	f.Int("top-k", 100, "number of rows in each report")
	f.String("telemetry", "", "append JSONL run events to this file")
	f.String("history-db", "", "record runs in this SQLite database")
	f.Bool("manifest", true, "write <pagerank-out>.toml describing the run")
	f.Bool("watch", false, "rerun whenever the input file changes")
	f.Duration("debounce", watch.DefaultDebounce, "quiet period before a change triggers a rerun")

	for name, key := range rankFlags {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyPositional(args, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)
	printer := ui.New(cmd.ErrOrStderr())

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	p := pipeline.Params{
		Input:         cfg.Input,
		Teleport:      cfg.Teleport,
		TopK:          cfg.TopK,
		InlinksOut:    cfg.InlinksOut,
		PageRankOut:   cfg.PageRankOut,
		MaxIterations: cfg.MaxIterations,
		Manifest:      cfg.Manifest,
		Logger:        logger,
	}

	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer em.Close()
		p.Telemetry = em
	}

	if cfg.HistoryDB != "" {
		store, err := history.Open(ctx, cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		p.History = store
	}

	once := func(ctx context.Context) error {
		out, err := runPipeline(ctx, cfg, p)
		if err != nil {
			return err
		}
		printer.Summary(summaryOf(cfg, out))
		return nil
	}

	if w, _ := cmd.Flags().GetBool("watch"); w {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		printer.Watching(cfg.Input)
		return watch.Loop(ctx, cfg.Input, debounce, once, func(err error) {
			printer.Error(err.Error())
		})
	}
	return once(ctx)
}

// runPipeline dispatches to the entry point for cfg's mode.
func runPipeline(ctx context.Context, cfg config.Config, p pipeline.Params) (*pipeline.Outcome, error) {
	if cfg.Mode() == config.ModeFixed {
		return pipeline.RunFixed(ctx, p, cfg.Iterations)
	}
	return pipeline.RunToConvergence(ctx, p, cfg.Tolerance)
}

func summaryOf(cfg config.Config, out *pipeline.Outcome) ui.SummaryData {
	top, score := out.Top()
	return ui.SummaryData{
		Input:       cfg.Input,
		Mode:        out.Mode,
		Iterations:  out.Result.Iterations,
		Distance:    out.Result.Distance,
		Converged:   out.Result.Converged,
		Nodes:       out.Nodes,
		Edges:       out.Edges,
		Dangling:    out.Dangling,
		TopNode:     top,
		TopScore:    score,
		Elapsed:     out.Finished.Sub(out.Started).Round(time.Millisecond),
		InlinksOut:  cfg.InlinksOut,
		PageRankOut: cfg.PageRankOut,
	}
}

// applyPositional overlays the positional argument surface
// input, lambda, tau or "exactly N", inlinks, pagerank, k onto cfg.
func applyPositional(args []string, cfg *config.Config) error {
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: lambda %q is not a number", config.ErrInvalid, args[1])
		}
		cfg.Teleport = v
	}
	if len(args) > 2 {
		if err := applyStopping(args[2], cfg); err != nil {
			return err
		}
	}
	if len(args) > 3 {
		cfg.InlinksOut = args[3]
	}
	if len(args) > 4 {
		cfg.PageRankOut = args[4]
	}
	if len(args) > 5 {
		k, err := strconv.Atoi(args[5])
		if err != nil {
			return fmt.Errorf("%w: k %q is not an integer", config.ErrInvalid, args[5])
		}
		cfg.TopK = k
	}
	return nil
}

// applyStopping parses a tolerance or "exactly N" (case-insensitive).
func applyStopping(arg string, cfg *config.Config) error {
	fields := strings.Fields(arg)
	if len(fields) > 0 && strings.HasPrefix(strings.ToLower(fields[0]), "exactly") {
		if len(fields) != 2 {
			return fmt.Errorf("%w: want \"exactly N\", got %q", config.ErrInvalid, arg)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("%w: iteration count %q is not an integer", config.ErrInvalid, fields[1])
		}
		if n <= 0 {
			return fmt.Errorf("%w: iteration count must be > 0, got %d", config.ErrInvalid, n)
		}
		cfg.Iterations = n
		return nil
	}

	tau, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("%w: tolerance %q is not a number", config.ErrInvalid, arg)
	}
	cfg.Tolerance = tau
	cfg.Iterations = 0
	return nil
}
