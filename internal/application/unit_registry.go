package application

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ahrav/go-vignette/infrastructure/middleware"
	"github.com/ahrav/go-vignette/infrastructure/units"
	"github.com/ahrav/go-vignette/internal/ports"
)

var _ ports.UnitRegistry = (*DefaultUnitRegistry)(nil)

// DefaultUnitRegistry creates resolution units by type name. Every unit it
// builds is wrapped in a middleware.ObservedUnit when an observer is set.
type DefaultUnitRegistry struct {
	factories map[string]ports.UnitFactory
	observer  middleware.UnitObserver
	mu        sync.RWMutex
}

// NewDefaultUnitRegistry returns a registry with the built-in resolution
// units registered. observer may be nil.
func NewDefaultUnitRegistry(observer middleware.UnitObserver) *DefaultUnitRegistry {
	r := &DefaultUnitRegistry{
		factories: make(map[string]ports.UnitFactory),
		observer:  observer,
	}
	r.registerBuiltinFactories()
	return r
}

func (r *DefaultUnitRegistry) registerBuiltinFactories() {
	r.factories[units.TypeDecisionLabels] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateDecisionLabelsUnit(id, config)
	}
	r.factories[units.TypeSideNames] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateSideNamesUnit(id, config)
	}
	r.factories[units.TypeScenarioAttributes] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateScenarioAttributesUnit(id, config)
	}
	r.factories[units.TypeAttributeMatch] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateAttributeMatchUnit(id, config)
	}
	r.factories[units.TypeAxisSelection] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateAxisSelectionUnit(id, config)
	}
	r.factories[units.TypeDefinitionLint] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateDefinitionLintUnit(id, config)
	}
	r.factories[units.TypeDecisionOutcomes] = func(id string, config map[string]any) (ports.Unit, error) {
		return units.CreateDecisionOutcomesUnit(id, config)
	}
}

// CreateUnit builds a unit of unitType. Unknown types fail with
// ports.ErrUnknownUnitType.
func (r *DefaultUnitRegistry) CreateUnit(unitType string, id string, config map[string]any) (ports.Unit, error) {
	r.mu.RLock()
	factory, exists := r.factories[unitType]
	observer := r.observer
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnknownUnitType, unitType)
	}
	if id == "" {
		return nil, fmt.Errorf("unit ID cannot be empty")
	}
	if config == nil {
		config = make(map[string]any)
	}

	unit, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create unit %s of type %s: %w", id, unitType, err)
	}
	if observer != nil {
		return middleware.NewObservedUnit(unit, observer), nil
	}
	return unit, nil
}

// RegisterUnitFactory adds or replaces the factory for unitType.
func (r *DefaultUnitRegistry) RegisterUnitFactory(unitType string, factory ports.UnitFactory) error {
	if unitType == "" {
		return fmt.Errorf("unit type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[unitType] = factory
	return nil
}

// GetSupportedTypes returns the registered unit types, sorted.
func (r *DefaultUnitRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// SetObserver replaces the observer applied to units created afterwards.
func (r *DefaultUnitRegistry) SetObserver(observer middleware.UnitObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = observer
}
