package application

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports"
)

var (
	_ ports.Pipeline = (*Pipeline)(nil)
	_ ports.Layer    = (*Layer)(nil)
)

// Pipeline runs executables in the order they were added, passing each
// one's output state to the next.
type Pipeline struct {
	id          string
	executables []ports.Executable
	// idSet gives O(1) duplicate detection on Add.
	idSet map[string]struct{}
	mu    sync.RWMutex
}

// NewPipeline creates an empty sequential pipeline.
func NewPipeline(id string) *Pipeline {
	return &Pipeline{
		id:          id,
		executables: make([]ports.Executable, 0),
		idSet:       make(map[string]struct{}),
	}
}

// Execute runs every executable in order. It stops at the first failure,
// returning the last good state and an error naming the failing step, and
// checks ctx between steps.
func (p *Pipeline) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	executables := p.Executables()

	current := state
	for _, exec := range executables {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		next, err := exec.Execute(ctx, current)
		if err != nil {
			return current, fmt.Errorf("pipeline %s: execution failed at %s: %w", p.id, exec.ID(), err)
		}
		current = next
	}
	return current, nil
}

// ID returns the pipeline identifier.
func (p *Pipeline) ID() string { return p.id }

// Add appends exec. It rejects nil executables and duplicate IDs.
func (p *Pipeline) Add(exec ports.Executable) error {
	if exec == nil {
		return fmt.Errorf("cannot add nil executable to pipeline")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	execID := exec.ID()
	if _, exists := p.idSet[execID]; exists {
		return fmt.Errorf("executable with ID %s already exists in pipeline", execID)
	}
	p.executables = append(p.executables, exec)
	p.idSet[execID] = struct{}{}
	return nil
}

// Executables returns a copy of the sequence in execution order.
func (p *Pipeline) Executables() []ports.Executable {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]ports.Executable, len(p.executables))
	copy(out, p.executables)
	return out
}

// Layer runs independent executables concurrently against the same input
// state. Results are merged in the order the executables were added, so
// the merged state does not depend on scheduling.
type Layer struct {
	id               string
	executables      []ports.Executable
	idSet            map[string]struct{}
	mergeStrategy    ports.MergeStrategy
	concurrencyLimit int
	mu               sync.RWMutex
}

// NewLayer creates an empty layer limited to 2x the CPU count of
// concurrent executions.
func NewLayer(id string) *Layer {
	return &Layer{
		id:               id,
		executables:      make([]ports.Executable, 0),
		idSet:            make(map[string]struct{}),
		concurrencyLimit: runtime.NumCPU() * 2,
	}
}

// Execute runs all members concurrently. If any member fails the layer
// returns the input state and the first error; otherwise the member
// outputs are merged with the configured MergeStrategy.
func (l *Layer) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	l.mu.RLock()
	executables := make([]ports.Executable, len(l.executables))
	copy(executables, l.executables)
	limit := l.concurrencyLimit
	strategy := l.mergeStrategy
	l.mu.RUnlock()

	if len(executables) == 0 {
		return state, nil
	}
	if limit <= 0 {
		limit = runtime.NumCPU() * 2
	}
	if strategy == nil {
		strategy = NewKeyMergeStrategy{}
	}

	results := make([]domain.State, len(executables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, exec := range executables {
		g.Go(func() error {
			out, err := exec.Execute(gctx, state)
			if err != nil {
				return fmt.Errorf("executable %s: %w", exec.ID(), err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return state, fmt.Errorf("layer %s failed: %w", l.id, err)
	}

	merged, err := strategy.Merge(state, results)
	if err != nil {
		return state, fmt.Errorf("layer %s: merge failed: %w", l.id, err)
	}
	return merged, nil
}

// ID returns the layer identifier.
func (l *Layer) ID() string { return l.id }

// Add includes exec in the layer. It rejects nil executables and duplicate
// IDs.
func (l *Layer) Add(exec ports.Executable) error {
	if exec == nil {
		return fmt.Errorf("cannot add nil executable to layer")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	execID := exec.ID()
	if _, exists := l.idSet[execID]; exists {
		return fmt.Errorf("executable with ID %s already exists in layer", execID)
	}
	l.executables = append(l.executables, exec)
	l.idSet[execID] = struct{}{}
	return nil
}

// Executables returns a copy of the layer members in insertion order.
func (l *Layer) Executables() []ports.Executable {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ports.Executable, len(l.executables))
	copy(out, l.executables)
	return out
}

// SetMergeStrategy replaces the default NewKeyMergeStrategy.
func (l *Layer) SetMergeStrategy(strategy ports.MergeStrategy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mergeStrategy = strategy
}

// SetConcurrencyLimit bounds concurrent member executions. Values <= 0
// restore the default.
func (l *Layer) SetConcurrencyLimit(limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.concurrencyLimit = limit
}

// NewKeyMergeStrategy folds into the base state every key that a member
// added or changed. When two members write the same key the later member
// in insertion order wins.
type NewKeyMergeStrategy struct{}

// Merge implements ports.MergeStrategy.
func (NewKeyMergeStrategy) Merge(base domain.State, states []domain.State) (domain.State, error) {
	updates := make(map[string]any)
	for _, s := range states {
		for _, key := range s.Keys() {
			v, _ := s.GetRaw(key)
			if old, ok := base.GetRaw(key); ok && reflect.DeepEqual(old, v) {
				continue
			}
			updates[key] = v
		}
	}
	if len(updates) == 0 {
		return base, nil
	}
	return base.WithMultiple(updates), nil
}
