package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// xcresultRe locates the result bundle path in xcodebuild output.
var xcresultRe = regexp.MustCompile(`(?m)/.*\.xcresult`)

// minReportFiles guards against a silently empty coverage report; a real
// test run always covers more source files than this.
const minReportFiles = 5

// FileCoverage is one file's line coverage from the xccov report.
type FileCoverage struct {
	// Path is the file path relative to the repository root, starting at the
	// source path prefix.
	Path string

	// LineCoverage is the covered fraction in [0,1].
	LineCoverage float64
}

// CoverageCheck builds and tests the example workspace with coverage
// instrumentation, then fails the gate for every non-exempt source file
// below the configured line-coverage threshold.
type CoverageCheck struct {
	env *Env
}

// NewCoverageCheck creates the code coverage check.
func NewCoverageCheck(env *Env) *CoverageCheck {
	return &CoverageCheck{env: env}
}

func (c *CoverageCheck) Name() string { return "coverage" }

func (c *CoverageCheck) Label() string { return "Code coverage" }

// Run drives xcodebuild and xccov and applies the threshold.
func (c *CoverageCheck) Run(ctx context.Context) (*Result, error) {
	res := &Result{Name: c.Name(), Label: c.Label()}
	cfg := c.env.Config
	dir := filepath.Join(c.env.RepoRoot, cfg.ExampleDir)

	build, err := c.env.Runner.Run(ctx, dir, "xcodebuild",
		"-workspace", cfg.Workspace,
		"-scheme", cfg.Scheme,
		"-enableCodeCoverage", "YES",
		"clean", "build", "test",
		"CODE_SIGN_IDENTITY=",
		"CODE_SIGNING_REQUIRED=NO")
	if err != nil {
		return nil, fmt.Errorf("%w: run xcodebuild: %v", ErrInfrastructure, err)
	}
	if build.ExitCode != 0 {
		return nil, fmt.Errorf("%w: xcodebuild failed (exit %d): %s",
			ErrInfrastructure, build.ExitCode, tail(build.Stderr, 20))
	}

	bundle := xcresultRe.FindString(build.Stdout)
	if bundle == "" {
		return nil, fmt.Errorf("%w: no .xcresult bundle path in xcodebuild output",
			ErrInfrastructure)
	}

	view, err := c.env.Runner.Run(ctx, dir, "xcrun", "xccov", "view",
		"--report", "--files-for-target", cfg.CoverageTarget, "--json", bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: run xccov: %v", ErrInfrastructure, err)
	}
	if view.ExitCode != 0 {
		return nil, fmt.Errorf("%w: xccov failed (exit %d): %s",
			ErrInfrastructure, view.ExitCode, strings.TrimSpace(view.Stderr))
	}

	files, err := parseCoverageReport(view.Stdout, cfg.SourcePathPrefix)
	if err != nil {
		return nil, err
	}

	bad := filterLowCoverage(files, cfg.UntestableFiles, cfg.CoverageThreshold)
	if len(bad) > 0 {
		res.Details = append(res.Details,
			fmt.Sprintf("minimum code coverage of %v not met by the following files:",
				cfg.CoverageThreshold))
		for _, f := range bad {
			res.Details = append(res.Details, fmt.Sprintf(" * %s : %v", f.Path, f.LineCoverage))
		}
		return res, nil
	}

	res.Passed = true
	return res, nil
}

// parseCoverageReport decodes the xccov JSON report. The report must contain
// exactly one product with a plausible number of files, and every file path
// must contain the source prefix; anything else is an infrastructure error.
func parseCoverageReport(jsonText, pathPrefix string) ([]FileCoverage, error) {
	var report []struct {
		Files []struct {
			Path         string  `json:"path"`
			LineCoverage float64 `json:"lineCoverage"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(jsonText), &report); err != nil {
		return nil, fmt.Errorf("%w: parse xccov report: %v", ErrInfrastructure, err)
	}

	if len(report) != 1 {
		return nil, fmt.Errorf("%w: expecting exactly one product in coverage report, got %d",
			ErrInfrastructure, len(report))
	}
	if len(report[0].Files) <= minReportFiles {
		return nil, fmt.Errorf("%w: expecting more than %d files in coverage report, got %d",
			ErrInfrastructure, minReportFiles, len(report[0].Files))
	}

	pathRe := regexp.MustCompile(regexp.QuoteMeta(pathPrefix) + ".*")

	files := make([]FileCoverage, 0, len(report[0].Files))
	for _, f := range report[0].Files {
		path := pathRe.FindString(f.Path)
		if path == "" {
			return nil, fmt.Errorf("%w: unexpected file path in coverage report: %q",
				ErrInfrastructure, f.Path)
		}
		files = append(files, FileCoverage{Path: path, LineCoverage: f.LineCoverage})
	}
	return files, nil
}

// filterLowCoverage returns the files below threshold, excluding exempt
// paths. A file at exactly the threshold passes.
func filterLowCoverage(files []FileCoverage, exempt []string, threshold float64) []FileCoverage {
	exemptSet := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptSet[p] = struct{}{}
	}

	var bad []FileCoverage
	for _, f := range files {
		if _, ok := exemptSet[f.Path]; ok {
			continue
		}
		if f.LineCoverage < threshold {
			bad = append(bad, f)
		}
	}
	return bad
}

// tail returns the last n lines of s, for error messages that would
// otherwise carry an entire build log.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
