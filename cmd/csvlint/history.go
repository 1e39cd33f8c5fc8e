package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackstar257/csvlint/pkg/cli"
	"github.com/blackstar257/csvlint/pkg/history"
)

var historyFlags struct {
	file      string
	limit     int
	format    string
	olderThan int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded validation runs",
	Long: `Inspect the local history of validation runs.

History recording is off by default; enable it in the config file:

  history:
    enabled: true
    path: data/csvlint.db
    retention_days: 90`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run including its full defect listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.file, "file", "", "only list runs for this file")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum number of runs to list (0 = all)")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
	historyShowCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
	historyPruneCmd.Flags().IntVar(&historyFlags.olderThan, "older-than", 0, "prune runs older than this many days (default: configured retention)")
}

// openHistoryStore opens the run store named by the configuration.
func openHistoryStore(cmd *cobra.Command) (*history.Store, int, error) {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return nil, 0, err
	}
	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return nil, 0, err
	}
	return store, cfg.History.RetentionDays, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, _, err := openHistoryStore(cmd)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), history.ListOptions{
		File:  historyFlags.file,
		Limit: historyFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	if historyFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}
	for _, run := range runs {
		verdict := "valid"
		if !run.Valid {
			verdict = fmt.Sprintf("invalid (%d defects)", run.DefectCount())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
			run.ID,
			run.StartedAt.Format(time.RFC3339),
			run.File,
			verdict,
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, _, err := openHistoryStore(cmd)
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	if run == nil {
		return cli.NewCommandError("history show", fmt.Errorf("run %q not found", args[0]))
	}

	if historyFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), run)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run:       %s\n", run.ID)
	fmt.Fprintf(&b, "File:      %s\n", run.File)
	fmt.Fprintf(&b, "Started:   %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:  %s\n", run.Duration)
	fmt.Fprintf(&b, "Delimiter: %s\n", run.Delimiter)
	fmt.Fprintf(&b, "Records:   %d\n", run.RecordCount)
	if run.Valid {
		b.WriteString("Verdict:   valid\n")
	} else {
		fmt.Fprintf(&b, "Verdict:   invalid (%d defects)\n", run.DefectCount())
		for _, d := range run.Defects {
			b.WriteString(d.String())
			b.WriteByte('\n')
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, retentionDays, err := openHistoryStore(cmd)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	days := retentionDays
	if cmd.Flags().Changed("older-than") {
		days = historyFlags.olderThan
	}
	if days <= 0 {
		return cli.NewCommandError("history prune", fmt.Errorf("retention window must be positive, got %d days", days))
	}

	deleted, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pruned %d run(s) older than %d days\n", deleted, days)
	return nil
}
