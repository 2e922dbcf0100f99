package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/releasegate/internal/checks"
	"github.com/harrison/releasegate/internal/config"
	"github.com/harrison/releasegate/internal/executor"
	"github.com/harrison/releasegate/internal/filelock"
	"github.com/harrison/releasegate/internal/gitutil"
	"github.com/harrison/releasegate/internal/history"
)

// ErrNotReady is returned by the check command when one or more
// quality-gate checks failed. It maps to exit code 1.
var ErrNotReady = errors.New("the repository is not release ready")

// NewCheckCommand creates the 'releasegate check' command
func NewCheckCommand() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the release readiness checks",
		Long: `Run the full release readiness gate against the current repository:

  1. pre-commit script
  2. swift-format lint
  3. pod install (must succeed)
  4. jazzy documentation coverage (must be 100%)
  5. per-file code coverage against the configured threshold
  6. TODO counts per file pattern (informational)

The command must be run from inside the repository. It exits 0 when every
check passes and 1 otherwise. Tool failures (missing binaries, unparseable
output) abort the run immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, noHistory)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false,
		"do not record this run in the history database")

	return cmd
}

func runCheck(cmd *cobra.Command, noHistory bool) error {
	ctx := cmd.Context()
	runner := executor.NewExecRunner()

	git := gitutil.New(runner)
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

	lock := filelock.NewRunLock(filepath.Join(repoRoot, ".releasegate", "run.lock"))
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	reporter := newConsoleReporter(cmd.OutOrStdout())
	env := &checks.Env{Runner: runner, Config: cfg, RepoRoot: repoRoot}

	report, err := checks.NewGate(env, reporter).Run(ctx)
	if err != nil {
		return err
	}

	if !noHistory {
		recordRun(ctx, repoRoot, cfg, report)
	}

	reporter.Summary(report.Ready())
	if !report.Ready() {
		return ErrNotReady
	}
	return nil
}

// recordRun stores the report in the history database. History is a
// convenience; a broken database must not change the gate's verdict, so
// failures only produce a warning.
func recordRun(ctx context.Context, repoRoot string, cfg *config.Config, report *checks.Report) {
	store, err := history.NewStore(filepath.Join(repoRoot, cfg.HistoryDBPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open history database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(ctx, report); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}
