package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/entrypoint"
)

// BuildInfo is stamped at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCommand creates the root command. With no subcommand it starts the server.
func NewRootCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bookreviews",
		Short:         "Book catalog and review service",
		Long:          "An HTTP service for registering books and collecting reader reviews.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), info.Version)
		},
	}

	cmd.AddCommand(NewServeCommand(info))
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewVersionCommand(info))

	return cmd
}

// NewServeCommand creates the serve command.
func NewServeCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Long: `Start the HTTP server.

Configuration is read from the environment: PORT, HOST, DATABASE_DRIVER,
DATABASE_PATH, DATABASE_DSN, LOG_MODE, TASKS_ENABLED and friends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), info.Version)
		},
	}
}
