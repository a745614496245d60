package ports

import (
	"context"

	"github.com/ahrav/go-vignette/internal/domain"
)

// MergeStrategy combines the states produced by parallel executions into a
// single state. Implementations must be deterministic for a given input
// order and must not modify their inputs.
type MergeStrategy interface {
	// Merge folds states, all derived from baseState, into one new State.
	Merge(baseState domain.State, states []domain.State) (domain.State, error)
}

// Executable is anything that can run as a node of a resolution pipeline:
// a wrapped unit, a sequential Pipeline or a parallel Layer.
type Executable interface {
	// Execute processes state and returns the updated state. The input is
	// shared and immutable; use domain.With or State.WithMultiple to derive
	// a new one. Execute must be safe to call concurrently.
	Execute(ctx context.Context, state domain.State) (domain.State, error)

	// ID returns the executable's identifier, unique within its container.
	ID() string
}

// Pipeline runs executables in order, feeding each one's output state to
// the next.
type Pipeline interface {
	Executable

	// Add appends exec to the sequence. It fails on duplicate IDs.
	Add(exec Executable) error

	// Executables returns the sequence in execution order.
	Executables() []Executable
}

// Layer runs independent executables concurrently against the same input
// state and merges their results.
type Layer interface {
	Executable

	// Add includes exec in the layer. It fails on duplicate IDs.
	Add(exec Executable) error

	// Executables returns the members of the layer.
	Executables() []Executable

	// SetMergeStrategy replaces the default merge. It must be called before
	// Execute.
	SetMergeStrategy(strategy MergeStrategy)
}
