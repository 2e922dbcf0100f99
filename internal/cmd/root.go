package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for releasegate
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "releasegate",
		Short: "Release readiness checks and build stamping",
		Long: `Releasegate aggregates the release-readiness checks for the SDK
(pre-commit, lint, dependency install, documentation coverage, code
coverage, TODO counts) into a single pass/fail gate, and stamps builds
with the current git revision and commit date.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewStampCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
