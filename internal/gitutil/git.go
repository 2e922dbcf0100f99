// Package gitutil queries git for repository metadata used by the release
// tooling: the repository root, the short revision hash, and the commit date.
package gitutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrison/releasegate/internal/executor"
)

// Git runs read-only git queries through a CommandRunner.
type Git struct {
	runner executor.CommandRunner

	// Path is the git executable to invoke. Defaults to "git".
	Path string
}

// New creates a Git helper using the provided runner.
func New(runner executor.CommandRunner) *Git {
	return &Git{runner: runner, Path: "git"}
}

// Resolve locates the git executable on PATH and pins the helper to the
// resolved absolute path. Returns an error if git is not installed.
func (g *Git) Resolve() error {
	path, err := executor.LookPath("git")
	if err != nil {
		return fmt.Errorf("git executable not found: %w", err)
	}
	g.Path = path
	return nil
}

// RepoRoot returns the absolute path of the repository's top-level directory.
// The caller is expected to be inside a work tree; anything else is an error.
func (g *Git) RepoRoot(ctx context.Context) (string, error) {
	res, err := g.runner.Run(ctx, "", g.Path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("run git rev-parse: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("not inside a git repository (exit %d): %s",
			res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ShortSHA returns the abbreviated hash of HEAD.
func (g *Git) ShortSHA(ctx context.Context) (string, error) {
	res, err := g.runner.Run(ctx, "", g.Path, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("run git rev-parse: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("get short revision hash (exit %d): %s",
			res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// CommitDate returns the committer date of HEAD in git's ISO-like format,
// e.g. "2021-01-01 00:00:00 +0000". The value is passed through verbatim.
func (g *Git) CommitDate(ctx context.Context) (string, error) {
	res, err := g.runner.Run(ctx, "", g.Path, "show", "-s", "--format=%ci", "HEAD")
	if err != nil {
		return "", fmt.Errorf("run git show: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("get commit date (exit %d): %s",
			res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}
