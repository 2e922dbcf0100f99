package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DepsInstallCheck runs the dependency manager install step in the example
// directory. This must always succeed: a failing install means nothing after
// it can be trusted, so any failure aborts the whole run.
type DepsInstallCheck struct {
	env *Env
}

// NewDepsInstallCheck creates the dependency install check.
func NewDepsInstallCheck(env *Env) *DepsInstallCheck {
	return &DepsInstallCheck{env: env}
}

func (c *DepsInstallCheck) Name() string { return "deps-install" }

func (c *DepsInstallCheck) Label() string { return "Pod update" }

// Run executes pod install; any failure is an infrastructure error.
func (c *DepsInstallCheck) Run(ctx context.Context) (*Result, error) {
	dir := filepath.Join(c.env.RepoRoot, c.env.Config.ExampleDir)

	out, err := c.env.Runner.Run(ctx, dir, "pod", "install")
	if err != nil {
		return nil, fmt.Errorf("%w: run pod install: %v", ErrInfrastructure, err)
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("%w: pod install failed (exit %d): %s",
			ErrInfrastructure, out.ExitCode, strings.TrimSpace(out.Stderr))
	}

	return &Result{Name: c.Name(), Label: c.Label(), Passed: true}, nil
}
