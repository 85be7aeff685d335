package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/buildinfo"
	"tally/internal/cli"
)

// Opener builds the App a command runs against.
type Opener func(ctx context.Context) (*cli.App, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Track personal expenses",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAddCommand(open),
		newListCommand(open),
		newEditCommand(open),
		newDeleteCommand(open),
		newStatsCommand(open),
		newCategoriesCommand(),
		newTailCommand(open),
	)

	return rootCmd
}

// DefaultOpener loads .env and the environment, sets up logging and
// bootstraps storage.
func DefaultOpener(ctx context.Context) (*cli.App, error) {
	if err := cli.LoadEnvFile(); err != nil {
		return nil, err
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg.LogLevel)
	return cli.Bootstrap(ctx, cfg, logger)
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, open Opener, fn func(app *cli.App) error) error {
	app, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
