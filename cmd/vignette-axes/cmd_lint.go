package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-vignette/internal/application"
	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/polarity"
)

func newLintCommand() *cobra.Command {
	var (
		definitionPath string
		format         string
		strict         bool
	)

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report authoring problems in a definition",
		Long: `Report authoring problems in a definition: rubric dimensions that are
not a complete 1-5 scale, placeholders that match no dimension, and
templates whose direction falls back to declared order.

Warnings never change resolution. With --strict any warning exits 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatTable {
				return fmt.Errorf("unknown format %q: must be %s or %s", format, formatTable, formatJSON)
			}

			raw, err := readDocument(definitionPath)
			if err != nil {
				return err
			}
			content, err := application.DecodeDefinitionContent(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", definitionPath, err)
			}

			warnings := polarity.LintDefinition(content)
			if warnings == nil {
				warnings = []domain.Warning{}
			}
			logger.WithField("warnings", len(warnings)).Debug("definition linted")

			if format == formatJSON {
				if err := writeJSON(cmd.OutOrStdout(), warnings); err != nil {
					return err
				}
			} else if len(warnings) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no warnings")
			} else {
				printWarnings(cmd.OutOrStdout(), warnings)
			}

			if strict && len(warnings) > 0 {
				return &LintFailureError{Count: len(warnings)}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&definitionPath, "definition", "d", "", "Path to the definition file (required)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any warning is reported")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}
