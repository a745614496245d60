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

var _ ports.Unit = (*AxisSelectionUnit)(nil)

// AxisSelectionUnit sanitizes a requested pivot axis pair against the
// resolved scenario attributes.
type AxisSelectionUnit struct {
	name   string
	tracer trace.Tracer
}

// NewAxisSelectionUnit creates an AxisSelectionUnit.
func NewAxisSelectionUnit(name string) (*AxisSelectionUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	return &AxisSelectionUnit{name: name, tracer: otel.Tracer("axis-selection-unit")}, nil
}

// Name returns the unit's identifier.
func (u *AxisSelectionUnit) Name() string { return u.name }

// Execute reads domain.KeyScenarioAttributes and domain.KeyRequestedAxes,
// both optional, and writes domain.KeyAxisSelection.
func (u *AxisSelectionUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "AxisSelectionUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeAxisSelection),
			attribute.String("unit.id", u.name),
		),
	)
	defer span.End()

	attrs, _ := domain.Get(state, domain.KeyScenarioAttributes)
	requested, _ := domain.Get(state, domain.KeyRequestedAxes)

	axes := polarity.ResolveScenarioAxisDimensions(attrs, requested.RowDim, requested.ColDim)
	span.SetAttributes(
		attribute.String("axes.row", axes.RowDim),
		attribute.String("axes.col", axes.ColDim),
		attribute.Bool("axes.adjusted", axes != requested),
	)

	return domain.With(state, domain.KeyAxisSelection, axes), nil
}

// Validate always succeeds; the unit has no configuration.
func (u *AxisSelectionUnit) Validate() error { return nil }

// CreateAxisSelectionUnit builds an AxisSelectionUnit. It takes no
// parameters.
func CreateAxisSelectionUnit(id string, config map[string]any) (*AxisSelectionUnit, error) {
	if len(config) > 0 {
		return nil, fmt.Errorf("%s takes no parameters, got %d", TypeAxisSelection, len(config))
	}
	return NewAxisSelectionUnit(id)
}
