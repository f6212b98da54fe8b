package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/graph"
	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/ui"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [input]",
	Short: "Write the node id, outdegree and inbound-count tables",
	Long: `Loads the edge list and writes three debugging tables:
"name: id" in id order, "id: outdegree" and "id: inbound count".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("ids", "ids.txt", "name-to-id table path")
	dumpCmd.Flags().String("outdegrees", "outdegrees.txt", "outdegree table path")
	dumpCmd.Flags().String("indegrees", "indegrees.txt", "inbound-count table path")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	input := cfg.Input
	if len(args) > 0 {
		input = args[0]
	}

	logger := newLogger(cmd, cfg)
	g, err := graph.LoadFile(input)
	if err != nil {
		return err
	}
	logger.Info().Str("input", input).Int("nodes", g.Len()).Int("edges", g.Edges()).Msg("graph loaded")

	tables := []struct {
		flag  string
		write func(io.Writer) error
	}{
		{"ids", g.WriteIDs},
		{"outdegrees", g.WriteOutDegrees},
		{"indegrees", g.WriteInDegrees},
	}

	printer := ui.New(cmd.ErrOrStderr())
	for _, t := range tables {
		path, _ := cmd.Flags().GetString(t.flag)
		if err := report.WriteFileAtomic(path, t.write); err != nil {
			return err
		}
		printer.Info("wrote " + path)
	}
	return nil
}
