package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/releasegate/internal/config"
	"github.com/harrison/releasegate/internal/executor"
	"github.com/harrison/releasegate/internal/gitutil"
	"github.com/harrison/releasegate/internal/stamp"
)

// NewStampCommand creates the 'releasegate stamp' command
func NewStampCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stamp",
		Short: "Write the build stamp file",
		Long: `Record the current git revision in the build stamp file.

The stamp is a two-field JSON object with the short revision hash and the
commit date of HEAD, written atomically to the configured path under the
repository root. Builds embed it so released binaries can be traced back
to their source revision.`,
		Args: cobra.NoArgs,
		RunE: runStamp,
	}
}

func runStamp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner := executor.NewExecRunner()

	git := gitutil.New(runner)
	if err := git.Resolve(); err != nil {
		return err
	}

	repoRoot, err := git.RepoRoot(ctx)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFromDir(repoRoot)
	if err != nil {
		return err
	}

	rec, path, err := stamp.New(git).Stamp(ctx, cfg.StampPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n", path, rec.BuildHash, rec.BuildDate)
	return nil
}
