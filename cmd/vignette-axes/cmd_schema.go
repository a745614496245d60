package main

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-vignette/internal/application"
)

// schemaTargets are the documents whose JSON schema can be printed.
var schemaTargets = map[string]func() any{
	"request": func() any { return &application.Request{} },
	"result":  func() any { return &application.Result{} },
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [request|result]",
		Short:     "Print the JSON schema of resolution requests or results",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"request", "result"},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := reflectSchema(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), schema)
		},
	}
}

func reflectSchema(target string) (*jsonschema.Schema, error) {
	newValue, ok := schemaTargets[target]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", target)
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return reflector.Reflect(newValue()), nil
}
