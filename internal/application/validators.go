package application

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	stepIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,99}$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// RegisterPipelineValidators adds the custom tags used by PipelineConfig:
// "semver" for X.Y.Z versions and "stepid" for unit, stage and pipeline
// identifiers.
func RegisterPipelineValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("stepid", validateStepID); err != nil {
		return fmt.Errorf("failed to register stepid validator: %w", err)
	}
	return nil
}

func validateSemver(fl validator.FieldLevel) bool {
	return semverPattern.MatchString(fl.Field().String())
}

// validateStepID accepts lower-case identifiers that start with a letter.
func validateStepID(fl validator.FieldLevel) bool {
	return stepIDPattern.MatchString(fl.Field().String())
}
