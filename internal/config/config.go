// Package config loads releasegate configuration from the repository.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up at the repository root.
const FileName = ".releasegate.yaml"

// Config holds all settings for the readiness checks and the build stamper.
type Config struct {
	// PreCommitScript is the path of the pre-commit validation script,
	// relative to the repository root.
	PreCommitScript string `yaml:"pre_commit_script"`

	// SourceDir is the directory passed to swift-format lint --recursive.
	SourceDir string `yaml:"source_dir"`

	// SourcePathPrefix anchors the path regex used to extract file paths from
	// lint diagnostics and coverage reports.
	SourcePathPrefix string `yaml:"source_path_prefix"`

	// LintIgnoreRule is a rule name whose diagnostics are ignored.
	LintIgnoreRule string `yaml:"lint_ignore_rule"`

	// ExampleDir is the subdirectory holding the example app, used as the
	// working directory for dependency install and the coverage build.
	ExampleDir string `yaml:"example_dir"`

	// JazzyConfig is the jazzy configuration file at the repository root.
	JazzyConfig string `yaml:"jazzy_config"`

	// Workspace and Scheme identify the xcodebuild invocation for the
	// coverage test run.
	Workspace string `yaml:"workspace"`
	Scheme    string `yaml:"scheme"`

	// CoverageTarget is the product passed to xccov --files-for-target.
	CoverageTarget string `yaml:"coverage_target"`

	// CoverageThreshold is the minimum acceptable line coverage per file.
	CoverageThreshold float64 `yaml:"coverage_threshold"`

	// UntestableFiles lists source paths exempt from the coverage threshold.
	UntestableFiles []string `yaml:"untestable_files"`

	// TodoPatterns are the file glob patterns scanned for TODO markers.
	TodoPatterns []string `yaml:"todo_patterns"`

	// StampPath is the build stamp file, relative to the repository root.
	StampPath string `yaml:"stamp_path"`

	// HistoryDBPath is the readiness run-history database, relative to the
	// repository root.
	HistoryDBPath string `yaml:"history_db_path"`
}

// Default returns a Config with the standard project layout.
func Default() *Config {
	return &Config{
		PreCommitScript:   "./Scripts/pre_commit.sh",
		SourceDir:         "Sources/Classes",
		SourcePathPrefix:  "Sources/",
		LintIgnoreRule:    "NoBlockComments",
		ExampleDir:        "Example",
		JazzyConfig:       "jazzy.yaml",
		Workspace:         "SDK.xcworkspace",
		Scheme:            "SDK-Unit-Tests",
		CoverageTarget:    "SDK.framework",
		CoverageThreshold: 0.8,
		TodoPatterns:      []string{"*.swift", "*.md"},
		StampPath:         "Example/BuildHash.json",
		HistoryDBPath:     ".releasegate/history.db",
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults without error; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads the configuration from FileName in dir.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.CoverageThreshold < 0 || c.CoverageThreshold > 1 {
		return fmt.Errorf("coverage_threshold must be in [0,1], got %v", c.CoverageThreshold)
	}
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir cannot be empty")
	}
	if c.SourcePathPrefix == "" {
		return fmt.Errorf("source_path_prefix cannot be empty")
	}
	if c.StampPath == "" {
		return fmt.Errorf("stamp_path cannot be empty")
	}
	if len(c.TodoPatterns) == 0 {
		return fmt.Errorf("todo_patterns cannot be empty")
	}
	return nil
}
