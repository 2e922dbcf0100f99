// Package executor provides subprocess execution for the release tooling.
//
// Every external tool (git, jazzy, swift-format, pod, xcodebuild, xccov) is
// invoked through a CommandRunner so that callers can be tested against a
// fake runner without spawning real processes.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result holds the outcome of a single command invocation.
type Result struct {
	// ExitCode is the command's exit status. Zero on success.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Duration is how long the command ran.
	Duration time.Duration
}

// CommandRunner abstracts external command execution for testability.
// Commands are specified as a program name plus an argument vector, never as
// a shell string, so no shell quoting is involved.
type CommandRunner interface {
	// Run executes name with args in dir (empty = current directory) and
	// returns the captured result. A non-zero exit status is reported via
	// Result.ExitCode, not as an error; err is non-nil only when the command
	// could not be run at all (binary missing, context canceled, etc.).
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// ExecRunner executes real commands via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a CommandRunner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and captures stdout and stderr separately.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}

	return res, nil
}

// LookPath resolves the absolute path of an executable on PATH.
// It mirrors exec.LookPath but lives here so callers depend only on this
// package for tool location.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
