package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/history"
	"github.com/papapumpkin/linkrank/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded ranking runs",
	Long: `Lists runs recorded in the history database, newest first.
With a run id, shows only that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().String("db", "", "history database (default: history_db from config)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path := cfg.HistoryDB
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		path = db
	}
	if path == "" {
		return fmt.Errorf("%w: no history database configured (set history_db or --db)", config.ErrInvalid)
	}

	store, err := history.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()

	printer := ui.New(cmd.OutOrStdout())
	if len(args) == 1 {
		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer.History([]history.Run{run})
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	printer.History(runs)
	return nil
}
