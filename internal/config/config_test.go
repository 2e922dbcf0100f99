package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load failed for missing file: %v", err)
	}
	if cfg.CoverageThreshold != 0.8 {
		t.Errorf("Expected default threshold 0.8, got %v", cfg.CoverageThreshold)
	}
	if cfg.LintIgnoreRule != "NoBlockComments" {
		t.Errorf("Expected default lint ignore rule, got %q", cfg.LintIgnoreRule)
	}
	if len(cfg.TodoPatterns) != 2 {
		t.Errorf("Expected two default todo patterns, got %v", cfg.TodoPatterns)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
coverage_threshold: 0.9
source_dir: Lib/Sources
source_path_prefix: Lib/
untestable_files:
  - Lib/Sources/Generated.swift
`
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CoverageThreshold != 0.9 {
		t.Errorf("Expected threshold 0.9, got %v", cfg.CoverageThreshold)
	}
	if cfg.SourceDir != "Lib/Sources" {
		t.Errorf("Expected overridden source_dir, got %q", cfg.SourceDir)
	}
	// Untouched fields keep their defaults.
	if cfg.ExampleDir != "Example" {
		t.Errorf("Expected default example_dir, got %q", cfg.ExampleDir)
	}
	if len(cfg.UntestableFiles) != 1 || cfg.UntestableFiles[0] != "Lib/Sources/Generated.swift" {
		t.Errorf("Unexpected untestable files: %v", cfg.UntestableFiles)
	}
}

func TestLoad_MalformedFileIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("coverage_threshold: [not a number"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for malformed config")
	}
}

func TestValidate_RejectsBadThreshold(t *testing.T) {
	cfg := Default()
	cfg.CoverageThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for threshold > 1")
	}

	cfg.CoverageThreshold = -0.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for negative threshold")
	}
}

func TestValidate_RejectsEmptyRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"source_dir", func(c *Config) { c.SourceDir = "" }},
		{"source_path_prefix", func(c *Config) { c.SourcePathPrefix = "" }},
		{"stamp_path", func(c *Config) { c.StampPath = "" }},
		{"todo_patterns", func(c *Config) { c.TodoPatterns = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for empty %s", tc.name)
			}
		})
	}
}
