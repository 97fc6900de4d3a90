package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mrlokans/navigator/internal/entrypoint"
	"github.com/mrlokans/navigator/internal/importers"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var override bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a config file into the catalog",
		Long: `Import a catalog config file. FILE is either a structured
{"category": [...], "sites": [...]} document or a legacy array of sites.
Use "-" to read from standard input.

Sites whose URL already exists are skipped unless --override is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			entrypoint.ConfigureLogging(cfg.Global.LogLevel)

			body, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			app, err := entrypoint.NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			var payloadFile string
			if app.Auditor != nil {
				if payloadFile, err = app.Auditor.SaveRaw(body); err != nil {
					log.Warn("Failed to store import payload", "err", err)
				}
			}

			payload, err := importers.DecodeBytes(body)
			if err != nil {
				app.AuditLog.LogImport("Rejected import payload", payloadFile, nil, err)
				return err
			}

			summary, err := app.Importer.Import(cmd.Context(), payload, importers.Options{Override: override})
			app.AuditLog.LogImport(summary.Message(), payloadFile, map[string]any{
				"structured": summary.Structured,
				"inserted":   summary.Inserted,
				"updated":    summary.Updated,
				"skipped":    summary.Skipped,
				"source":     "cli",
			}, err)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), summary.Message())
			return nil
		},
	}
	cmd.Flags().BoolVar(&override, "override", false, "Update sites whose URL already exists")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return body, nil
}
