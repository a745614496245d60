package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConfigError verifies message formatting and sentinel matching.
func TestConfigError(t *testing.T) {
	err := NewConfigError("pipeline.units", ErrConfigNotFound)

	assert.Equal(t, "config error: key=pipeline.units, err=configuration not found", err.Error())
	assert.Equal(t, "pipeline.units", err.ConfigKey)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		err     error
		wantMsg string
	}{
		{
			name:    "without path",
			err:     ErrSchemaViolation,
			wantMsg: "decode error: source=definition, err=schema violation",
		},
		{
			name:    "with path",
			path:    "/dimensions/0/name",
			err:     errors.New("expected string"),
			wantMsg: "decode error: source=definition, path=/dimensions/0/name, err=expected string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDecodeError("definition", tt.path, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

// TestCommonInfrastructureErrors checks the sentinel messages.
func TestCommonInfrastructureErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrConfigNotFound, "configuration not found"},
		{ErrUnknownUnitType, "unknown unit type"},
		{ErrSchemaViolation, "schema violation"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

// TestErrorUnwrapping ensures every error type exposes its cause.
func TestErrorUnwrapping(t *testing.T) {
	baseErr := errors.New("underlying error")

	errorList := []interface {
		error
		Unwrap() error
	}{
		NewConfigError("key", baseErr),
		NewDecodeError("definition", "", baseErr),
	}

	for _, err := range errorList {
		assert.Equal(t, baseErr, err.Unwrap(), "%T should unwrap to base error", err)
		assert.True(t, errors.Is(err, baseErr), "%T should match base error with Is", err)
	}
}
