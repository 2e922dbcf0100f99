package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// LintCheck runs swift-format in lint mode over the source directory.
//
// swift-format does not set a non-zero exit code for warnings, so the check
// is driven entirely by its stderr diagnostics: every non-ignored line must
// name a file under the source path prefix, and any such line fails the gate.
type LintCheck struct {
	env *Env
}

// NewLintCheck creates the lint check.
func NewLintCheck(env *Env) *LintCheck {
	return &LintCheck{env: env}
}

func (c *LintCheck) Name() string { return "lint" }

func (c *LintCheck) Label() string { return "Checking swift-format lint" }

// Run lints the source directory and reports each offending diagnostic.
func (c *LintCheck) Run(ctx context.Context) (*Result, error) {
	res := &Result{Name: c.Name(), Label: c.Label()}

	out, err := c.env.Runner.Run(ctx, c.env.RepoRoot,
		"swift-format", "lint", "--recursive", c.env.Config.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: run swift-format: %v", ErrInfrastructure, err)
	}

	findings, err := parseLintDiagnostics(out.Stderr,
		c.env.Config.SourcePathPrefix, c.env.Config.LintIgnoreRule)
	if err != nil {
		return nil, err
	}

	if len(findings) > 0 {
		for _, f := range findings {
			res.Details = append(res.Details, fmt.Sprintf(" * %s", f))
		}
		res.Details = append(res.Details, "swift-format lint failed")
		return res, nil
	}

	res.Passed = true
	return res, nil
}

// parseLintDiagnostics extracts per-file findings from swift-format stderr.
// Lines mentioning ignoreRule are skipped. Every remaining line must contain
// a path starting with pathPrefix; anything else means the tool's output
// format changed and the run cannot be trusted.
func parseLintDiagnostics(stderr, pathPrefix, ignoreRule string) ([]string, error) {
	if strings.TrimSpace(stderr) == "" {
		return nil, nil
	}

	pathRe := regexp.MustCompile(regexp.QuoteMeta(pathPrefix) + ".*")

	var findings []string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if ignoreRule != "" && strings.Contains(line, ignoreRule) {
			continue
		}
		match := pathRe.FindString(line)
		if match == "" {
			return nil, fmt.Errorf("%w: unexpected swift-format output: %q",
				ErrInfrastructure, line)
		}
		findings = append(findings, match)
	}
	return findings, nil
}
