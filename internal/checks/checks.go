// Package checks implements the release readiness gate.
//
// A Gate runs a fixed sequence of checks against the repository. Each check
// either passes, fails (recorded, run continues), or hits an infrastructure
// error (run aborts immediately). The aggregated results reduce to the final
// release-ready verdict.
package checks

import (
	"context"
	"errors"
	"time"

	"github.com/harrison/releasegate/internal/config"
	"github.com/harrison/releasegate/internal/executor"
)

// ErrInfrastructure marks failures of the checking machinery itself: a tool
// missing, output in an unexpected shape, a step that must always succeed
// exiting non-zero. These abort the run, unlike quality-gate failures.
var ErrInfrastructure = errors.New("infrastructure failure")

// Result holds the outcome of a single check.
type Result struct {
	// Name is a stable identifier for the check (e.g. "lint").
	Name string

	// Label is the human-readable status line prefix (e.g. "Checking
	// swift-format lint").
	Label string

	// Passed reports whether the check met its bar. Always true for
	// informational checks.
	Passed bool

	// Informational marks checks that never affect the verdict.
	Informational bool

	// Details are diagnostic lines to show the user: offending lint lines,
	// under-covered files, TODO counts.
	Details []string

	// Duration is how long the check took.
	Duration time.Duration
}

// Check is a single readiness check.
type Check interface {
	// Name returns the check's stable identifier.
	Name() string

	// Label returns the display label for the check's status line.
	Label() string

	// Run executes the check. A non-nil error is an infrastructure failure
	// and aborts the whole gate; a quality-gate failure is reported via
	// Result.Passed instead.
	Run(ctx context.Context) (*Result, error)
}

// Reporter receives check progress for display. Implementations print the
// per-check status lines as the gate runs.
type Reporter interface {
	// CheckStarted is called before a check runs, with its display label.
	CheckStarted(label string)

	// CheckCompleted is called with the finished result.
	CheckCompleted(res *Result)
}

// Env carries the shared dependencies of all checks.
type Env struct {
	// Runner executes the external tools.
	Runner executor.CommandRunner

	// Config holds paths, thresholds and allow-lists.
	Config *config.Config

	// RepoRoot is the absolute repository root; all checks run relative
	// to it.
	RepoRoot string
}

// Report aggregates the results of a complete gate run.
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	Results   []Result
}

// Ready reports whether every non-informational check passed.
func (r *Report) Ready() bool {
	for _, res := range r.Results {
		if !res.Informational && !res.Passed {
			return false
		}
	}
	return true
}

// Gate runs checks in sequence and aggregates their results.
type Gate struct {
	checks   []Check
	reporter Reporter
}

// NewGate builds the standard check sequence for env: pre-commit, lint,
// dependency install, documentation coverage, code coverage, then one TODO
// count per configured pattern.
func NewGate(env *Env, reporter Reporter) *Gate {
	checks := []Check{
		NewPreCommitCheck(env),
		NewLintCheck(env),
		NewDepsInstallCheck(env),
		NewDocsCheck(env),
		NewCoverageCheck(env),
	}
	for _, pattern := range env.Config.TodoPatterns {
		checks = append(checks, NewTodoCheck(env, pattern))
	}
	return &Gate{checks: checks, reporter: reporter}
}

// NewGateWithChecks builds a gate over an explicit check sequence.
func NewGateWithChecks(reporter Reporter, checks ...Check) *Gate {
	return &Gate{checks: checks, reporter: reporter}
}

// Run executes all checks in order. Quality-gate failures are recorded and
// the run continues; an infrastructure error stops the run immediately and
// is returned wrapped in ErrInfrastructure context.
func (g *Gate) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now()}

	for _, check := range g.checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		if g.reporter != nil {
			g.reporter.CheckStarted(check.Label())
		}

		res, err := check.Run(ctx)
		if err != nil {
			return nil, err
		}
		res.Duration = time.Since(start)

		if g.reporter != nil {
			g.reporter.CheckCompleted(res)
		}
		report.Results = append(report.Results, *res)
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}
