package application

import (
	"gopkg.in/yaml.v3"
)

// PipelineConfig is the YAML form of a resolution pipeline.
//
// Example:
//
//	version: "1.0.0"
//	metadata:
//	  name: default
//	units:
//	  - id: labels
//	    type: decision_labels
//	  - id: attrs
//	    type: scenario_attributes
//	    parameters:
//	      max_attributes: 2
//	stages:
//	  - id: derive
//	    parallel: true
//	    units: [labels, attrs]
type PipelineConfig struct {
	// Version is the config schema version in X.Y.Z form.
	Version string `yaml:"version" validate:"required,semver"`

	Metadata Metadata `yaml:"metadata" validate:"required"`

	// Units declares every unit the stages may reference.
	Units []UnitConfig `yaml:"units" validate:"required,min=1,dive"`

	// Stages run in order. Each unit must be placed in exactly one stage.
	Stages []StageConfig `yaml:"stages" validate:"required,min=1,dive"`
}

// Metadata describes a pipeline.
type Metadata struct {
	// Name identifies the pipeline and becomes its ID in traces and in
	// domain.KeyPipelineID.
	Name        string            `yaml:"name" validate:"required,stepid"`
	Description string            `yaml:"description" validate:"max=1000"`
	Labels      map[string]string `yaml:"labels" validate:"max=50"`
}

// UnitConfig declares one unit instance.
type UnitConfig struct {
	ID   string `yaml:"id" validate:"required,stepid"`
	Type string `yaml:"type" validate:"required"`

	// Parameters is decoded per unit type by the unit's factory, which
	// rejects unknown keys.
	Parameters yaml.Node `yaml:"parameters"`
}

// StageConfig groups units that run either one after another or, when
// Parallel is set, concurrently against the same input state.
type StageConfig struct {
	ID       string   `yaml:"id" validate:"required,stepid"`
	Parallel bool     `yaml:"parallel"`
	Units    []string `yaml:"units" validate:"required,min=1,dive,stepid"`
}
