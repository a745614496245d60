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

var _ ports.Unit = (*AttributeMatchUnit)(nil)

// AttributeMatchUnit maps the side names onto the first two resolved
// scenario attributes.
type AttributeMatchUnit struct {
	name   string
	tracer trace.Tracer
}

// NewAttributeMatchUnit creates an AttributeMatchUnit.
func NewAttributeMatchUnit(name string) (*AttributeMatchUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	return &AttributeMatchUnit{name: name, tracer: otel.Tracer("attribute-match-unit")}, nil
}

// Name returns the unit's identifier.
func (u *AttributeMatchUnit) Name() string { return u.name }

// Execute reads domain.KeySideNames and domain.KeyScenarioAttributes and
// writes domain.KeyAttributePairing. Without side names the state passes
// through unchanged.
func (u *AttributeMatchUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "AttributeMatchUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeAttributeMatch),
			attribute.String("unit.id", u.name),
		),
	)
	defer span.End()

	sides, ok := domain.Get(state, domain.KeySideNames)
	if !ok {
		return state, nil
	}
	attrs, _ := domain.Get(state, domain.KeyScenarioAttributes)

	pairing := polarity.MapDecisionSidesToScenarioAttributes(sides.AName, sides.BName, attrs)
	span.SetAttributes(
		attribute.String("pairing.low", pairing.LowAttribute),
		attribute.String("pairing.high", pairing.HighAttribute),
		attribute.Bool("pairing.swapped", len(attrs) >= 2 && pairing.LowAttribute == attrs[1]),
	)

	return domain.With(state, domain.KeyAttributePairing, pairing), nil
}

// Validate always succeeds; the unit has no configuration.
func (u *AttributeMatchUnit) Validate() error { return nil }

// CreateAttributeMatchUnit builds an AttributeMatchUnit. It takes no
// parameters.
func CreateAttributeMatchUnit(id string, config map[string]any) (*AttributeMatchUnit, error) {
	if len(config) > 0 {
		return nil, fmt.Errorf("%s takes no parameters, got %d", TypeAttributeMatch, len(config))
	}
	return NewAttributeMatchUnit(id)
}
