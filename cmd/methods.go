package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	methodsrender "github.com/bnema/actual-mcp/internal/adapters/render/methods"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/spf13/cobra"
)

func newMethodsCmd(holder *appHolder) *cobra.Command {
	var (
		category     string
		summary      bool
		asJSON       bool
		descriptions bool
		exportPath   string
	)

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the finance API methods available to call_method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.run(cmd, func(a *app) error {
				if exportPath = strings.TrimSpace(exportPath); exportPath != "" {
					if err := a.manifest.Export(cmd.Context(), exportPath); err != nil {
						return err
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "manifest from %s written to %s\n", a.manifest.Source(), exportPath)
					return err
				}

				if summary {
					counts := a.catalog.Summary()
					if asJSON {
						return writeJSON(cmd, counts)
					}
					out, err := methodsrender.RenderSummary(counts)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
					return err
				}

				methods, err := a.catalog.List(domain.Category(category))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, methods)
				}

				out, err := methodsrender.Render(methods, methodsrender.RenderOptions{Descriptions: descriptions})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", string(domain.CategoryAll), "Only list methods of this category")
	cmd.Flags().BoolVar(&summary, "summary", false, "Show method counts per category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&descriptions, "descriptions", false, "Include method and parameter descriptions")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the active manifest as TOML to this path")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return err
}
