// Package cli implements the navigator command line: the HTTP server plus
// offline import and export of catalog configuration files.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/navigator/internal/config"
	"github.com/mrlokans/navigator/internal/entrypoint"
)

type rootOptions struct {
	version string
	dbPath  string
}

// config loads the environment configuration and applies flag overrides.
func (o *rootOptions) config() *config.Config {
	cfg := config.NewConfig()
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	return cfg
}

// NewRootCommand builds the navigator command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	root := &cobra.Command{
		Use:           "navigator",
		Short:         "Bookmark catalog server with config import and export",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Without a subcommand the server is started
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.config(), opts.version)
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Database path (default: $DATABASE_PATH or "+config.DefaultDatabasePath+")")

	root.AddCommand(
		newServeCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
	)
	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.config(), opts.version)
		},
	}
}
