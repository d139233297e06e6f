package main

import (
	"fmt"
	"time"

	"cytosight/csvexport/pkg/cli"
	"cytosight/csvexport/pkg/history"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	dataset string
	kind    string
	outcome string
	since   string
	until   string
	limit   int
	offset  int
	format  string

	showFormat string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query recorded export runs",
	Long:  `Query and prune the export run history.

History is recorded only when history.enabled is true in the configuration.

Subcommands:
  list   - List runs with filters
  show   - Show one run
  prune  - Apply the retention policy now`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Long:  `List recorded runs, newest first.

Time bounds accept RFC3339 timestamps or durations relative to now:
  --since 24h
  --since 2026-03-01T00:00:00Z --until 2026-03-02T00:00:00Z

Examples:
  csvexport history list --dataset cells
  csvexport history list --outcome open_failed --format json`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs outside the retention policy",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.dataset, "dataset", "", "filter by dataset name")
	historyListCmd.Flags().StringVar(&historyFlags.kind, "kind", "", "filter by kind (points, clusters)")
	historyListCmd.Flags().StringVar(&historyFlags.outcome, "outcome", "", "filter by outcome")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "runs started at or after (RFC3339 or duration)")
	historyListCmd.Flags().StringVar(&historyFlags.until, "until", "", "runs started at or before (RFC3339 or duration)")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", history.DefaultLimit, "max results")
	historyListCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")

	historyShowCmd.Flags().StringVar(&historyFlags.showFormat, "format", "json", "output format: text, json, csv")
}

func withHistory(fn func(a *app, store history.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openHistory()
	if err != nil {
		return err
	}
	return fn(a, store)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyFlags.format)
	if err != nil {
		return err
	}

	now := time.Now()
	query := &history.Query{
		Dataset: historyFlags.dataset,
		Kind:    historyFlags.kind,
		Outcome: historyFlags.outcome,
		Limit:   historyFlags.limit,
		Offset:  historyFlags.offset,
	}
	if query.Since, err = parseTimeBound(historyFlags.since, now); err != nil {
		return fmt.Errorf("invalid --since: %w", err)
	}
	if query.Until, err = parseTimeBound(historyFlags.until, now); err != nil {
		return fmt.Errorf("invalid --until: %w", err)
	}

	return withHistory(func(_ *app, store history.Store) error {
		runs, err := store.List(cmd.Context(), query)
		if err != nil {
			return cli.NewCommandError("history list", "", err)
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.RunTable(runs))
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyFlags.showFormat)
	if err != nil {
		return err
	}

	return withHistory(func(_ *app, store history.Store) error {
		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return cli.NewCommandError("history show", args[0], err)
		}
		if format == cli.FormatJSON {
			return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), run)
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.RunTable{run})
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	return withHistory(func(a *app, _ history.Store) error {
		deleted, err := a.newPruner().Prune(cmd.Context())
		if err != nil {
			return cli.NewCommandError("history prune", "", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs\n", deleted)
		return nil
	})
}

// parseTimeBound accepts an RFC3339 timestamp or a duration before now.
// Empty yields nil.
func parseTimeBound(s string, now time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("%q is neither RFC3339 nor a duration", s)
	}
	t := now.Add(-d)
	return &t, nil
}
