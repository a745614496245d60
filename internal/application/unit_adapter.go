package application

import (
	"context"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports"
)

var _ ports.Executable = (*UnitAdapter)(nil)

// UnitAdapter lets a ports.Unit run as a node of a Pipeline or Layer.
// The node ID is the step ID from the pipeline config, which may differ
// from the unit's own name.
type UnitAdapter struct {
	unit ports.Unit
	id   string
}

// NewUnitAdapter wraps unit under the node identifier id.
func NewUnitAdapter(unit ports.Unit, id string) *UnitAdapter {
	return &UnitAdapter{unit: unit, id: id}
}

// Execute runs the wrapped unit.
func (ua *UnitAdapter) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	return ua.unit.Execute(ctx, state)
}

// ID returns the node identifier.
func (ua *UnitAdapter) ID() string { return ua.id }

// Unit returns the wrapped unit.
func (ua *UnitAdapter) Unit() ports.Unit { return ua.unit }
