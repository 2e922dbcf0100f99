package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/releasegate/internal/config"
	"github.com/harrison/releasegate/internal/executor"
	"github.com/harrison/releasegate/internal/gitutil"
	"github.com/harrison/releasegate/internal/history"
)

// NewHistoryCommand creates the 'releasegate history' command
func NewHistoryCommand() *cobra.Command {
	var limit int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent readiness runs",
		Long: `List recent readiness runs recorded by 'releasegate check',
newest first, with each run's per-check outcomes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit, verbose)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of runs to show")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show failure details for each check")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int, verbose bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	git := gitutil.New(executor.NewExecRunner())
	if err := git.Resolve(); err != nil {
		return err
	}

	repoRoot, err := git.RepoRoot(ctx)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFromDir(repoRoot)
	if err != nil {
		return err
	}

	store, err := history.NewStore(filepath.Join(repoRoot, cfg.HistoryDBPath))
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs. Run 'releasegate check' first.")
		return nil
	}

	for _, run := range runs {
		verdict := "not ready"
		if run.Ready {
			verdict = "ready"
		}
		fmt.Fprintf(out, "%s  %s  %-9s (%s)\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(run.ID), verdict, run.Duration.Round(time.Second))

		for _, check := range run.Checks {
			status := "pass"
			switch {
			case check.Informational:
				status = "info"
			case !check.Passed:
				status = "FAIL"
			}
			fmt.Fprintf(out, "    %-4s %s\n", status, check.Name)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					fmt.Fprintf(out, "         %s\n", line)
				}
			}
		}
	}
	return nil
}

// shortID abbreviates a run id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
