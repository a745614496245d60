// Package ports defines the interfaces that form the contract between the
// domain/application layers and the infrastructure layer.
package ports

import (
	"context"

	"github.com/ahrav/go-vignette/internal/domain"
)

// Unit is one step of a resolution pipeline. A Unit reads its inputs from
// the resolution State and returns a new State carrying its outputs.
// Units are stateless and safe for concurrent use.
type Unit interface {
	// Name returns the unit's identifier, used in spans, metrics and errors.
	Name() string

	// Execute returns a new State with the unit's outputs added. The input
	// State must not be modified. Units should return promptly when ctx is
	// cancelled.
	//
	// Example:
	//
	//	next, err := unit.Execute(ctx, state)
	//	if err != nil {
	//	    return state, fmt.Errorf("unit %s failed: %w", unit.Name(), err)
	//	}
	Execute(ctx context.Context, state domain.State) (domain.State, error)

	// Validate reports whether the unit is configured well enough to run.
	Validate() error
}

// UnitFactory builds a Unit of one type from its identifier and loosely
// typed YAML parameters.
type UnitFactory func(id string, config map[string]any) (Unit, error)

// UnitRegistry creates units by type name.
type UnitRegistry interface {
	// CreateUnit builds a unit of unitType with the given id and parameters.
	// It returns an error for unknown types or invalid parameters.
	CreateUnit(unitType string, id string, config map[string]any) (Unit, error)

	// RegisterUnitFactory adds or replaces the factory for unitType.
	RegisterUnitFactory(unitType string, factory UnitFactory) error

	// GetSupportedTypes lists the registered unit types.
	GetSupportedTypes() []string
}
