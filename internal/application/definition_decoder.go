package application

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports"
)

//go:embed schemas/definition.schema.json
var definitionSchemaJSON []byte

var (
	definitionSchema = mustCompileSchema(definitionSchemaJSON, "definition.schema.json")
	schemaPrinter    = message.NewPrinter(language.English)
	contentValidator = validator.New()
)

func mustCompileSchema(raw []byte, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// rawDimension accepts both stored dimension shapes: scored levels, or a
// plain values list whose entries are scored 1..n in order.
type rawDimension struct {
	Name   string     `mapstructure:"name"`
	Levels []rawLevel `mapstructure:"levels"`
	Values []string   `mapstructure:"values"`
}

type rawLevel struct {
	Score *int   `mapstructure:"score"`
	Label string `mapstructure:"label"`
}

type rawContent struct {
	Template   string         `mapstructure:"template"`
	Dimensions []rawDimension `mapstructure:"dimensions"`
}

// DecodeDefinitionContent turns a loosely typed definition payload into
// domain.DefinitionContent. raw may be JSON bytes (as []byte or
// json.RawMessage) or an already-decoded value such as map[string]any.
//
// The payload is checked against the embedded JSON schema, then decoded
// with weak typing so that numeric strings become scores. Levels without a
// score get score 0 so they never complete a rubric. Dimensions without a name or without any level are
// dropped. Schema and decode failures are *ports.DecodeError; a decoded
// definition that fails struct validation wraps domain.ErrInvalidDefinition.
func DecodeDefinitionContent(raw any) (domain.DefinitionContent, error) {
	doc, err := normalizeJSON(raw)
	if err != nil {
		return domain.DefinitionContent{}, ports.NewDecodeError("definition", "", err)
	}

	if err := definitionSchema.Validate(doc); err != nil {
		path, msg := firstSchemaFailure(err)
		return domain.DefinitionContent{}, ports.NewDecodeError("definition", path,
			fmt.Errorf("%w: %s", ports.ErrSchemaViolation, msg))
	}

	var rc rawContent
	if err := weakDecode(doc, &rc); err != nil {
		return domain.DefinitionContent{}, ports.NewDecodeError("definition", "", err)
	}

	content := domain.DefinitionContent{
		Template:   rc.Template,
		Dimensions: make([]domain.Dimension, 0, len(rc.Dimensions)),
	}
	for _, rd := range rc.Dimensions {
		if dim, ok := rd.toDimension(); ok {
			content.Dimensions = append(content.Dimensions, dim)
		}
	}

	if err := contentValidator.Struct(content); err != nil {
		return domain.DefinitionContent{}, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	return content, nil
}

func (rd rawDimension) toDimension() (domain.Dimension, bool) {
	name := strings.TrimSpace(rd.Name)
	if name == "" {
		return domain.Dimension{}, false
	}

	var levels []domain.Level
	switch {
	case rd.Levels != nil:
		levels = make([]domain.Level, 0, len(rd.Levels))
		for _, rl := range rd.Levels {
			// Unscored levels get 0, which no rubric scale accepts.
			score := 0
			if rl.Score != nil {
				score = *rl.Score
			}
			levels = append(levels, domain.Level{Score: score, Label: rl.Label})
		}
	case rd.Values != nil:
		levels = make([]domain.Level, 0, len(rd.Values))
		for i, v := range rd.Values {
			levels = append(levels, domain.Level{Score: i + 1, Label: v})
		}
	}
	if len(levels) == 0 {
		return domain.Dimension{}, false
	}
	return domain.Dimension{Name: name, Levels: levels}, true
}

// DecodeScenarioRecords decodes persisted scenario records keyed by
// scenario ID. Attribute values may be numbers or strings; both are kept
// as their decimal string form.
func DecodeScenarioRecords(raw any) (domain.ScenarioRecords, error) {
	doc, err := normalizeJSON(raw)
	if err != nil {
		return nil, ports.NewDecodeError("scenarios", "", err)
	}
	if doc == nil {
		return domain.ScenarioRecords{}, nil
	}

	records := make(domain.ScenarioRecords)
	if err := weakDecode(doc, &records); err != nil {
		return nil, ports.NewDecodeError("scenarios", "", err)
	}
	return records, nil
}

// DecodeDecisionRecords decodes stored decision codes keyed by scenario
// ID. Numeric codes are kept as their decimal string form.
func DecodeDecisionRecords(raw any) (domain.DecisionRecords, error) {
	doc, err := normalizeJSON(raw)
	if err != nil {
		return nil, ports.NewDecodeError("decisions", "", err)
	}
	if doc == nil {
		return domain.DecisionRecords{}, nil
	}

	decisions := make(domain.DecisionRecords)
	if err := weakDecode(doc, &decisions); err != nil {
		return nil, ports.NewDecodeError("decisions", "", err)
	}
	return decisions, nil
}

// normalizeJSON converts raw into the plain JSON value types the schema
// validator understands.
func normalizeJSON(raw any) (any, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("payload is not JSON-encodable: %w", err)
		}
		data = b
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty payload")
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

func weakDecode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// firstSchemaFailure returns the location and message of the first leaf
// cause of a schema validation error.
func firstSchemaFailure(err error) (string, string) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return "", err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return "/" + strings.Join(ve.InstanceLocation, "/"), ve.ErrorKind.LocalizedString(schemaPrinter)
}
