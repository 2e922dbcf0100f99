package checks

import (
	"context"
	"fmt"
	"strings"
)

// PreCommitCheck runs the repository's pre-commit validation script.
// A non-zero exit is a quality-gate failure, not an abort.
type PreCommitCheck struct {
	env *Env
}

// NewPreCommitCheck creates the pre-commit check.
func NewPreCommitCheck(env *Env) *PreCommitCheck {
	return &PreCommitCheck{env: env}
}

func (c *PreCommitCheck) Name() string { return "pre-commit" }

func (c *PreCommitCheck) Label() string { return "Pre-commit check" }

// Run executes the configured script at the repository root.
func (c *PreCommitCheck) Run(ctx context.Context) (*Result, error) {
	res := &Result{Name: c.Name(), Label: c.Label()}

	script := c.env.Config.PreCommitScript
	out, err := c.env.Runner.Run(ctx, c.env.RepoRoot, script)
	if err != nil {
		// The script not being runnable is indistinguishable from it
		// rejecting the tree as far as the gate is concerned.
		res.Details = []string{fmt.Sprintf("%s could not be run: %v", script, err)}
		return res, nil
	}

	if out.ExitCode != 0 {
		res.Details = append(res.Details, fmt.Sprintf("%s failed", script))
		if trimmed := strings.TrimSpace(out.Stdout); trimmed != "" {
			res.Details = append(res.Details, strings.Split(trimmed, "\n")...)
		}
		return res, nil
	}

	res.Passed = true
	return res, nil
}
