package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// docCoverageRe matches jazzy's coverage summary, e.g.
// "83% documentation coverage with 12 undocumented symbols".
var docCoverageRe = regexp.MustCompile(`^([0-9]+)% documentation coverage`)

// DocsCheck runs jazzy and requires 100% documentation coverage.
type DocsCheck struct {
	env *Env
}

// NewDocsCheck creates the documentation coverage check.
func NewDocsCheck(env *Env) *DocsCheck {
	return &DocsCheck{env: env}
}

func (c *DocsCheck) Name() string { return "docs" }

func (c *DocsCheck) Label() string { return "Documentation coverage" }

// Run generates the docs and parses the coverage percentage from jazzy's
// output. Anything other than 100 fails the gate; output without a coverage
// line at all aborts the run.
func (c *DocsCheck) Run(ctx context.Context) (*Result, error) {
	res := &Result{Name: c.Name(), Label: c.Label()}

	out, err := c.env.Runner.Run(ctx, c.env.RepoRoot,
		"jazzy", "--config", c.env.Config.JazzyConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: run jazzy: %v", ErrInfrastructure, err)
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("%w: jazzy exited non-zero (exit %d): %s",
			ErrInfrastructure, out.ExitCode, strings.TrimSpace(out.Stderr))
	}

	percentage, line, found := parseDocCoverage(out.Stdout)
	if !found {
		return nil, fmt.Errorf("%w: documentation percentage not found in jazzy output: %q",
			ErrInfrastructure, out.Stdout)
	}

	if percentage != "100" {
		res.Details = []string{fmt.Sprintf("documentation incomplete: %q", line)}
		return res, nil
	}

	res.Passed = true
	return res, nil
}

// parseDocCoverage scans jazzy stdout for the coverage summary line.
// It returns the percentage as written, the full matching line, and whether
// a match was found.
func parseDocCoverage(stdout string) (percentage, line string, found bool) {
	for _, l := range strings.Split(stdout, "\n") {
		if m := docCoverageRe.FindStringSubmatch(l); m != nil {
			return m[1], l, true
		}
	}
	return "", "", false
}
