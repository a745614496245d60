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

var _ ports.Unit = (*DecisionLabelsUnit)(nil)

// DecisionLabelsUnit derives the decision label map of a definition: an
// explicit rubric first, then template inference, then declared order,
// then the single-attribute scale.
//
// Concurrency: DecisionLabelsUnit is stateless and safe for concurrent
// execution.
type DecisionLabelsUnit struct {
	name   string
	config DecisionLabelsConfig
	tracer trace.Tracer
}

// DecisionLabelsConfig controls how an unsupported definition is reported.
type DecisionLabelsConfig struct {
	// RequireLabels makes Execute fail with domain.ErrUnsupportedDefinition
	// when no rule applies. When false the unit records
	// LabelSourceUnsupported and leaves KeyDecisionLabels unset.
	RequireLabels bool `yaml:"require_labels" json:"require_labels"`
}

// DefaultDecisionLabelsConfig returns the configuration used by the
// built-in pipeline: unsupported definitions are not an error.
func DefaultDecisionLabelsConfig() DecisionLabelsConfig {
	return DecisionLabelsConfig{RequireLabels: false}
}

// NewDecisionLabelsUnit creates a DecisionLabelsUnit.
func NewDecisionLabelsUnit(name string, config DecisionLabelsConfig) (*DecisionLabelsUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &DecisionLabelsUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("decision-labels-unit"),
	}, nil
}

// Name returns the unit's identifier.
func (u *DecisionLabelsUnit) Name() string { return u.name }

// Execute reads domain.KeyDefinition and writes domain.KeyLabelSource and,
// when a label map could be built, domain.KeyDecisionLabels.
func (u *DecisionLabelsUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "DecisionLabelsUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeDecisionLabels),
			attribute.String("unit.id", u.name),
			attribute.Bool("config.require_labels", u.config.RequireLabels),
		),
	)
	defer span.End()

	content, ok := domain.Get(state, domain.KeyDefinition)
	if !ok {
		err := missingInput(domain.KeyDefinition.Name())
		span.RecordError(err)
		return state, err
	}

	labels, source, ok := polarity.BuildDecisionLabels(content)
	span.SetAttributes(
		attribute.String("labels.source", string(source)),
		attribute.Int("definition.dimensions", len(content.Dimensions)),
	)

	if !ok {
		if u.config.RequireLabels {
			err := fmt.Errorf("%w: %d dimensions, no usable rubric", domain.ErrUnsupportedDefinition, len(content.Dimensions))
			span.RecordError(err)
			return state, err
		}
		return domain.With(state, domain.KeyLabelSource, source), nil
	}

	return state.WithMultiple(map[string]any{
		domain.KeyDecisionLabels.Name(): labels,
		domain.KeyLabelSource.Name():    source,
	}), nil
}

// Validate checks the unit configuration.
func (u *DecisionLabelsUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// CreateDecisionLabelsUnit builds a DecisionLabelsUnit from pipeline
// parameters. Supported keys: "require_labels" (bool).
func CreateDecisionLabelsUnit(id string, config map[string]any) (*DecisionLabelsUnit, error) {
	cfg := DefaultDecisionLabelsConfig()
	if err := decodeParameters(config, &cfg); err != nil {
		return nil, err
	}
	return NewDecisionLabelsUnit(id, cfg)
}
