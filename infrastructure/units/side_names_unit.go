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

var _ ports.Unit = (*SideNamesUnit)(nil)

// SideNamesUnit extracts the canonical side names favored by scores 1 and 5
// from the decision labels.
type SideNamesUnit struct {
	name   string
	tracer trace.Tracer
}

// NewSideNamesUnit creates a SideNamesUnit.
func NewSideNamesUnit(name string) (*SideNamesUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	return &SideNamesUnit{name: name, tracer: otel.Tracer("side-names-unit")}, nil
}

// Name returns the unit's identifier.
func (u *SideNamesUnit) Name() string { return u.name }

// Execute reads domain.KeyDecisionLabels and writes domain.KeySideNames.
// A state without labels, or with labels missing an extreme, passes
// through unchanged.
func (u *SideNamesUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "SideNamesUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeSideNames),
			attribute.String("unit.id", u.name),
		),
	)
	defer span.End()

	labels, ok := domain.Get(state, domain.KeyDecisionLabels)
	if !ok {
		span.SetAttributes(attribute.Bool("sides.resolved", false))
		return state, nil
	}

	sides, ok := polarity.ExtractSideNames(labels)
	span.SetAttributes(attribute.Bool("sides.resolved", ok))
	if !ok {
		return state, nil
	}

	return domain.With(state, domain.KeySideNames, sides), nil
}

// Validate always succeeds; the unit has no configuration.
func (u *SideNamesUnit) Validate() error { return nil }

// CreateSideNamesUnit builds a SideNamesUnit. It takes no parameters and
// rejects any that are given.
func CreateSideNamesUnit(id string, config map[string]any) (*SideNamesUnit, error) {
	if len(config) > 0 {
		return nil, fmt.Errorf("%s takes no parameters, got %d", TypeSideNames, len(config))
	}
	return NewSideNamesUnit(id)
}
