package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/navigator/internal/entrypoint"
	"github.com/mrlokans/navigator/internal/exporters"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format         string
		includePrivate bool
	)

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export the catalog as a config file",
		Long: `Export every category and site. The JSON format can be imported
back unchanged. Without FILE the export is written to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "markdown" {
				return fmt.Errorf("unsupported format %q (want json or markdown)", format)
			}

			cfg := opts.config()
			entrypoint.ConfigureLogging(cfg.Global.LogLevel)

			app, err := entrypoint.NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			doc, err := app.Exporter.Build(cmd.Context())
			result := doc.Result()
			app.AuditLog.LogExport(result.CategoriesExported, result.SitesExported, err)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				defer f.Close()
				out = f
			}

			if err := writeDocument(out, doc, format, includePrivate); err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d categories and %d sites to %s\n",
					result.CategoriesExported, result.SitesExported, args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or markdown")
	cmd.Flags().BoolVar(&includePrivate, "include-private", false, "Include private entries in markdown output")
	return cmd
}

func writeDocument(w io.Writer, doc exporters.Document, format string, includePrivate bool) error {
	if format == "markdown" {
		_, err := io.WriteString(w, exporters.GenerateMarkdown(doc, exporters.MarkdownOptions{IncludePrivate: includePrivate}))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
