package units

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/polarity"
	"github.com/ahrav/go-vignette/internal/ports"
)

var _ ports.Unit = (*ScenarioAttributesUnit)(nil)

// ScenarioAttributesUnit chooses the attribute names that scenario results
// are pivoted on, trusting preferred names over the observed record shape.
type ScenarioAttributesUnit struct {
	name   string
	config ScenarioAttributesConfig
	tracer trace.Tracer
}

// ScenarioAttributesConfig controls where preferred names come from and how
// many attributes are kept.
type ScenarioAttributesConfig struct {
	// PreferDeclared uses the definition's attribute dimension names as the
	// preference when the state carries no explicit preferred attributes.
	PreferDeclared bool `yaml:"prefer_declared" json:"prefer_declared"`

	// MaxAttributes truncates the result. Zero keeps every attribute.
	MaxAttributes int `yaml:"max_attributes" json:"max_attributes" validate:"min=0"`
}

// DefaultScenarioAttributesConfig returns the built-in configuration:
// declared names are preferred and nothing is truncated.
func DefaultScenarioAttributesConfig() ScenarioAttributesConfig {
	return ScenarioAttributesConfig{
		PreferDeclared: true,
		MaxAttributes:  0,
	}
}

// NewScenarioAttributesUnit creates a ScenarioAttributesUnit.
func NewScenarioAttributesUnit(name string, config ScenarioAttributesConfig) (*ScenarioAttributesUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &ScenarioAttributesUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("scenario-attributes-unit"),
	}, nil
}

// Name returns the unit's identifier.
func (u *ScenarioAttributesUnit) Name() string { return u.name }

// Execute reads domain.KeyScenarios (absent means no records),
// domain.KeyPreferredAttributes and, with PreferDeclared, domain.KeyDefinition.
// It writes domain.KeyScenarioAttributes.
func (u *ScenarioAttributesUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "ScenarioAttributesUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeScenarioAttributes),
			attribute.String("unit.id", u.name),
			attribute.Bool("config.prefer_declared", u.config.PreferDeclared),
			attribute.Int("config.max_attributes", u.config.MaxAttributes),
		),
	)
	defer span.End()

	records, _ := domain.Get(state, domain.KeyScenarios)
	preferred, ok := domain.Get(state, domain.KeyPreferredAttributes)
	if !ok && u.config.PreferDeclared {
		preferred = u.declaredNames(state)
	}

	attrs := polarity.ResolveScenarioAttributes(records, preferred)
	if u.config.MaxAttributes > 0 && len(attrs) > u.config.MaxAttributes {
		attrs = attrs[:u.config.MaxAttributes]
	}

	span.SetAttributes(
		attribute.Int("scenarios.count", len(records)),
		attribute.Int("attributes.preferred", len(preferred)),
		attribute.StringSlice("attributes.resolved", attrs),
	)

	return domain.With(state, domain.KeyScenarioAttributes, attrs), nil
}

func (u *ScenarioAttributesUnit) declaredNames(state domain.State) []string {
	content, ok := domain.Get(state, domain.KeyDefinition)
	if !ok {
		return nil
	}
	dims := polarity.AttributeDimensions(content)
	names := make([]string, 0, len(dims))
	for _, d := range dims {
		names = append(names, d.Name)
	}
	return names
}

// Validate checks the unit configuration.
func (u *ScenarioAttributesUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// CreateScenarioAttributesUnit builds a ScenarioAttributesUnit from pipeline
// parameters. Supported keys: "prefer_declared" (bool) and
// "max_attributes" (int).
func CreateScenarioAttributesUnit(id string, config map[string]any) (*ScenarioAttributesUnit, error) {
	cfg := DefaultScenarioAttributesConfig()
	if err := decodeParameters(config, &cfg); err != nil {
		return nil, err
	}
	return NewScenarioAttributesUnit(id, cfg)
}
