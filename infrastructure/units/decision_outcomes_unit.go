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

var _ ports.Unit = (*DecisionOutcomesUnit)(nil)

// DecisionOutcomesUnit reads the stored decision of each scenario against
// the resolved labels and pairing.
type DecisionOutcomesUnit struct {
	name   string
	tracer trace.Tracer
}

// NewDecisionOutcomesUnit creates a DecisionOutcomesUnit.
func NewDecisionOutcomesUnit(name string) (*DecisionOutcomesUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	return &DecisionOutcomesUnit{name: name, tracer: otel.Tracer("decision-outcomes-unit")}, nil
}

// Name returns the unit's identifier.
func (u *DecisionOutcomesUnit) Name() string { return u.name }

// Execute reads domain.KeyDecisions together with the scenarios, labels,
// pairing and scenario attributes, and writes domain.KeyScenarioDecisions.
// Scenario names follow the resolved attribute order, or the declared
// dimension order when no attributes were resolved. Without decisions the
// state passes through unchanged.
func (u *DecisionOutcomesUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := u.tracer.Start(ctx, "DecisionOutcomesUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", TypeDecisionOutcomes),
			attribute.String("unit.id", u.name),
		),
	)
	defer span.End()

	decisions, ok := domain.Get(state, domain.KeyDecisions)
	if !ok {
		return state, nil
	}
	records, _ := domain.Get(state, domain.KeyScenarios)
	labels, _ := domain.Get(state, domain.KeyDecisionLabels)
	pairing, _ := domain.Get(state, domain.KeyAttributePairing)

	order, _ := domain.Get(state, domain.KeyScenarioAttributes)
	if len(order) == 0 {
		content, _ := domain.Get(state, domain.KeyDefinition)
		order = content.DimensionNames()
	}

	classified := polarity.ClassifyDecisions(decisions, records, labels, pairing, order)

	counts := make(map[domain.Outcome]int, 4)
	for _, d := range classified {
		counts[d.Outcome]++
	}
	span.SetAttributes(
		attribute.Int("decisions.count", len(classified)),
		attribute.Int("decisions.low", counts[domain.OutcomeLow]),
		attribute.Int("decisions.high", counts[domain.OutcomeHigh]),
		attribute.Int("decisions.unknown", counts[domain.OutcomeUnknown]),
	)

	return domain.With(state, domain.KeyScenarioDecisions, classified), nil
}

// Validate always succeeds; the unit has no configuration.
func (u *DecisionOutcomesUnit) Validate() error { return nil }

// CreateDecisionOutcomesUnit builds a DecisionOutcomesUnit. It takes no
// parameters.
func CreateDecisionOutcomesUnit(id string, config map[string]any) (*DecisionOutcomesUnit, error) {
	if len(config) > 0 {
		return nil, fmt.Errorf("%s takes no parameters, got %d", TypeDecisionOutcomes, len(config))
	}
	return NewDecisionOutcomesUnit(id)
}
