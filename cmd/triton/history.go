package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"themelab-hq/triton/pkg/cli"
	"themelab-hq/triton/pkg/history"
)

var historyFlags struct {
	since  time.Duration
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past validation runs",
	Long: `Show validation runs recorded in the history database.

Requires history to be enabled in the configuration.

Examples:
  # The ten most recent runs
  triton history --limit 10

  # Runs from the last two days
  triton history --since 48h`,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs outside the retention bounds",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 7*24*time.Hour, "how far back to look")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum runs to show (0 = all)")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is not enabled in the configuration")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	now := time.Now()
	runs, err := store.Query(context.Background(), now.Add(-historyFlags.since), now.Add(time.Hour), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if historyFlags.format == "json" {
		formatter, err := cli.NewFormatter(cli.FormatJSON)
		if err != nil {
			return err
		}
		return formatter.FormatTo(os.Stdout, runs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tPROFILE\tFILES\tCRIT\tERR\tWARN\tINFO\tELAPSED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%dms\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Profile,
			r.Summary.FilesScanned,
			r.Summary.CriticalCount,
			r.Summary.ErrorCount,
			r.Summary.WarningCount,
			r.Summary.InfoCount,
			r.Summary.ElapsedMS,
		)
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is not enabled in the configuration")
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	pruner := history.NewPruner(store, history.RetentionConfig{
		MaxAgeDays: cfg.History.RetentionDays,
		MaxRuns:    cfg.History.MaxRuns,
	}, log)

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Printf("%d runs pruned\n", deleted)
	return nil
}
