package units

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/polarity"
	"github.com/ahrav/go-vignette/internal/ports"
)

var _ ports.Unit = (*DefinitionLintUnit)(nil)

// DefinitionLintUnit reports author-facing warnings about a definition.
type DefinitionLintUnit struct {
	name   string
	config DefinitionLintConfig
	tracer trace.Tracer
}

// DefinitionLintConfig selects which warnings abort the pipeline.
type DefinitionLintConfig struct {
	// FailOn lists warning codes that turn into an error wrapping
	// domain.ErrInvalidDefinition. Empty means warnings never fail.
	FailOn []domain.WarningCode `yaml:"fail_on" json:"fail_on" validate:"dive,oneof=direction_fallback unknown_placeholder partial_rubric"`
}

// DefaultDefinitionLintConfig returns a configuration that never fails.
func DefaultDefinitionLintConfig() DefinitionLintConfig {
	return DefinitionLintConfig{}
}

// NewDefinitionLintUnit creates a DefinitionLintUnit.
func NewDefinitionLintUnit(name string, config DefinitionLintConfig) (*DefinitionLintUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &DefinitionLintUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("definition-lint-unit"),
	}, nil
}

// Name returns the unit's identifier.
func (u *DefinitionLintUnit) Name() string { return u.name }

// Execute reads domain.KeyDefinition and writes domain.KeyWarnings.
func (u *DefinitionLintUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "DefinitionLintUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeDefinitionLint),
			attribute.String("unit.id", u.name),
			attribute.Int("config.fail_on", len(u.config.FailOn)),
		),
	)
	defer span.End()

	content, ok := domain.Get(state, domain.KeyDefinition)
	if !ok {
		err := missingInput(domain.KeyDefinition.Name())
		span.RecordError(err)
		return state, err
	}

	warnings := polarity.LintDefinition(content)
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	span.SetAttributes(attribute.Int("lint.warnings", len(warnings)))

	for _, w := range warnings {
		if slices.Contains(u.config.FailOn, w.Code) {
			err := fmt.Errorf("%w: %s", domain.ErrInvalidDefinition, w.Message)
			span.RecordError(err)
			return state, err
		}
	}

	return domain.With(state, domain.KeyWarnings, warnings), nil
}

// Validate checks the unit configuration.
func (u *DefinitionLintUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// CreateDefinitionLintUnit builds a DefinitionLintUnit from pipeline
// parameters. Supported keys: "fail_on" (list of warning codes).
func CreateDefinitionLintUnit(id string, config map[string]any) (*DefinitionLintUnit, error) {
	cfg := DefaultDefinitionLintConfig()
	if err := decodeParameters(config, &cfg); err != nil {
		return nil, err
	}
	return NewDefinitionLintUnit(id, cfg)
}
