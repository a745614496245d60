// Package units provides the resolution steps that implement ports.Unit.
// Each unit wraps one pure operation of the polarity package, reading its
// inputs from and writing its outputs to the immutable resolution State.
package units

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Unit type names as referenced by pipeline configuration.
const (
	TypeDecisionLabels     = "decision_labels"
	TypeSideNames          = "side_names"
	TypeScenarioAttributes = "scenario_attributes"
	TypeAttributeMatch     = "attribute_match"
	TypeAxisSelection      = "axis_selection"
	TypeDefinitionLint     = "definition_lint"
	TypeDecisionOutcomes   = "decision_outcomes"
)

// Common errors returned by units.
var (
	// ErrEmptyUnitName is returned when creating a unit with an empty name.
	ErrEmptyUnitName = errors.New("unit name cannot be empty")

	// ErrMissingInput is returned when a required state key is absent.
	ErrMissingInput = errors.New("required input missing from state")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// decodeParameters overlays loosely typed parameters onto cfg, which should
// already hold the unit's defaults. Decoding is strict so that misspelled
// keys fail instead of being ignored.
func decodeParameters[T any](params map[string]any, cfg *T) error {
	if len(params) > 0 {
		data, err := yaml.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to encode parameters: %w", err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode parameters (check for typos): %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	return nil
}

// missingInput reports a required state key that was not present.
func missingInput(key string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, key)
}
