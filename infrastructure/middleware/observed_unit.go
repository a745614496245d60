package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports"
)

var _ ports.Unit = (*ObservedUnit)(nil)

// UnitObserver provides observability hooks around unit execution.
// Implementations carry per-call data through the returned context, so one
// observer can serve concurrent executions.
type UnitObserver interface {
	// PreExecute is called before the wrapped unit runs. The returned
	// context is passed to the unit and to PostExecute.
	PreExecute(ctx context.Context, unit string, state domain.State) context.Context

	// PostExecute is called after the wrapped unit returns.
	PostExecute(ctx context.Context, unit string, state domain.State, elapsed time.Duration, err error)
}

// ObservedUnit wraps a unit and reports each execution to an observer.
// It never changes the wrapped unit's result.
type ObservedUnit struct {
	next     ports.Unit
	observer UnitObserver
}

// NewObservedUnit wraps next. A nil observer makes the wrapper transparent.
func NewObservedUnit(next ports.Unit, observer UnitObserver) *ObservedUnit {
	if next == nil {
		panic("observed unit: next unit is required")
	}
	return &ObservedUnit{next: next, observer: observer}
}

// Name returns the wrapped unit's name so errors and metrics keep pointing
// at the real unit.
func (o *ObservedUnit) Name() string { return o.next.Name() }

// Unwrap returns the wrapped unit.
func (o *ObservedUnit) Unwrap() ports.Unit { return o.next }

// Execute runs the wrapped unit between the observer hooks.
func (o *ObservedUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	if o.observer == nil {
		return o.next.Execute(ctx, state)
	}

	ctx = o.observer.PreExecute(ctx, o.next.Name(), state)

	start := time.Now()
	newState, err := o.next.Execute(ctx, state)
	elapsed := time.Since(start)

	o.observer.PostExecute(ctx, o.next.Name(), newState, elapsed, err)
	return newState, err
}

// Validate delegates to the wrapped unit.
func (o *ObservedUnit) Validate() error {
	if o.next == nil {
		return fmt.Errorf("observed unit: next unit is required")
	}
	return o.next.Validate()
}
