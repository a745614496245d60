package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-vignette/internal/application"
	"github.com/ahrav/go-vignette/internal/domain"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

type resolveOptions struct {
	definitionPath string
	scenariosPath  string
	decisionsPath  string
	definitionID   string
	runID          string
	pipelinePath   string
	prefer         []string
	dataOnly       bool
	row            string
	col            string
	format         string
}

func newResolveCommand() *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve decision labels and scenario axes for a definition",
		Long: `Resolve decision labels and scenario axes for a definition.

The definition file holds a template and its dimensions, as JSON or YAML
(chosen by extension). The optional scenarios file maps scenario IDs to
the attribute values each scenario was generated under. The optional
decisions file maps scenario IDs to stored decision codes, which are read
against the resolved scale.

--prefer names the authoritative attribute names. --data-only ignores
declared names and infers attributes from the scenarios alone. --row and
--col carry a previous pivot selection, which is corrected when stale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.definitionPath, "definition", "d", "", "Path to the definition file (required)")
	cmd.Flags().StringVarP(&opts.scenariosPath, "scenarios", "s", "", "Path to the scenario records file")
	cmd.Flags().StringVar(&opts.decisionsPath, "decisions", "", "Path to the stored decisions file")
	cmd.Flags().StringVar(&opts.definitionID, "definition-id", "", "Identifier reported with the result")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Run identifier (generated when empty)")
	cmd.Flags().StringVar(&opts.pipelinePath, "pipeline", os.Getenv(envPipeline), "Pipeline config file (defaults to the built-in pipeline)")
	cmd.Flags().StringSliceVar(&opts.prefer, "prefer", nil, "Preferred attribute names, comma separated")
	cmd.Flags().BoolVar(&opts.dataOnly, "data-only", false, "Infer attributes from scenario data only")
	cmd.Flags().StringVar(&opts.row, "row", "", "Requested row attribute")
	cmd.Flags().StringVar(&opts.col, "col", "", "Requested column attribute")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "Output format: table or json")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}

func runResolve(cmd *cobra.Command, opts resolveOptions) error {
	if opts.format != formatJSON && opts.format != formatTable {
		return fmt.Errorf("unknown format %q: must be %s or %s", opts.format, formatTable, formatJSON)
	}
	if opts.dataOnly && len(opts.prefer) > 0 {
		return fmt.Errorf("--prefer and --data-only are mutually exclusive")
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	resolver, err := buildResolver(cmd.Context(), opts.pipelinePath, nil)
	if err != nil {
		return err
	}

	result, err := resolver.Resolve(cmd.Context(), req)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func buildRequest(opts resolveOptions) (application.Request, error) {
	raw, err := readDocument(opts.definitionPath)
	if err != nil {
		return application.Request{}, err
	}
	content, err := application.DecodeDefinitionContent(raw)
	if err != nil {
		return application.Request{}, fmt.Errorf("%s: %w", opts.definitionPath, err)
	}

	req := application.Request{
		DefinitionID: opts.definitionID,
		RunID:        opts.runID,
		Definition:   content,
	}

	if opts.scenariosPath != "" {
		raw, err := readDocument(opts.scenariosPath)
		if err != nil {
			return application.Request{}, err
		}
		req.Scenarios, err = application.DecodeScenarioRecords(raw)
		if err != nil {
			return application.Request{}, fmt.Errorf("%s: %w", opts.scenariosPath, err)
		}
	}

	if opts.decisionsPath != "" {
		raw, err := readDocument(opts.decisionsPath)
		if err != nil {
			return application.Request{}, err
		}
		req.Decisions, err = application.DecodeDecisionRecords(raw)
		if err != nil {
			return application.Request{}, fmt.Errorf("%s: %w", opts.decisionsPath, err)
		}
	}

	switch {
	case opts.dataOnly:
		req.PreferredAttributes = []string{}
	case len(opts.prefer) > 0:
		req.PreferredAttributes = opts.prefer
	}

	if opts.row != "" || opts.col != "" {
		req.RequestedAxes = &domain.AxisSelection{RowDim: opts.row, ColDim: opts.col}
	}
	return req, nil
}

// readDocument reads a JSON or YAML file. YAML files are decoded here and
// returned as a value; JSON is returned as bytes.
func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return doc, nil
	default:
		return data, nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult renders a result as an aligned two-column table.
func printResult(w io.Writer, r application.Result) {
	rows := [][2]string{
		{"Run", r.RunID},
		{"Label source", string(r.LabelSource)},
	}
	if r.DefinitionID != "" {
		rows = append([][2]string{{"Definition", r.DefinitionID}}, rows...)
	}
	for score := domain.MinDecisionScore; score <= domain.MaxDecisionScore; score++ {
		if label, ok := r.Labels[score]; ok {
			rows = append(rows, [2]string{fmt.Sprintf("Label %d", score), label})
		}
	}
	if r.Sides != nil {
		rows = append(rows,
			[2]string{"Side A (1)", r.Sides.AName},
			[2]string{"Side B (5)", r.Sides.BName},
		)
	}
	if r.Pairing != nil {
		rows = append(rows,
			[2]string{"Low attribute", r.Pairing.LowAttribute},
			[2]string{"High attribute", r.Pairing.HighAttribute},
		)
	}
	rows = append(rows,
		[2]string{"Attributes", strings.Join(r.Attributes, ", ")},
		[2]string{"Row axis", r.Axes.RowDim},
		[2]string{"Column axis", r.Axes.ColDim},
	)

	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s  %s\n", padRight(row[0], width), row[1])
	}

	if len(r.Decisions) > 0 {
		_, _ = fmt.Fprintln(w)
		printDecisions(w, r.Decisions)
	}

	if len(r.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
		printWarnings(w, r.Warnings)
	}
}

// printDecisions lists each decision by scenario name, falling back to the
// scenario ID when the scenario has no record.
func printDecisions(w io.Writer, decisions []domain.ScenarioDecision) {
	names := make([]string, len(decisions))
	width := 0
	for i, d := range decisions {
		names[i] = d.Scenario
		if names[i] == "" {
			names[i] = d.ScenarioID
		}
		width = max(width, runewidth.StringWidth(names[i]))
	}
	for i, d := range decisions {
		line := padRight(names[i], width) + "  " + string(d.Outcome)
		if d.Label != "" {
			line += "  " + d.Label
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func printWarnings(w io.Writer, warnings []domain.Warning) {
	width := 0
	for _, warning := range warnings {
		width = max(width, runewidth.StringWidth(string(warning.Code)))
	}
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "%s  %s\n", padRight(string(warning.Code), width), warning.Message)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
