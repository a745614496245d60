package ports

import (
	"errors"
	"fmt"
)

// Infrastructure errors raised at the module's boundaries.
var (
	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrUnknownUnitType indicates that a pipeline referenced a unit type
	// with no registered factory.
	ErrUnknownUnitType = errors.New("unknown unit type")

	// ErrSchemaViolation indicates that a raw payload does not satisfy its
	// JSON schema.
	ErrSchemaViolation = errors.New("schema violation")
)

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key involved in the failure.
	ConfigKey string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}

// DecodeError reports a payload that could not be decoded into a domain
// type. Path locates the offending field when known.
type DecodeError struct {
	// Source names what was being decoded, e.g. "definition".
	Source string

	// Path is a JSON-pointer-like location of the failure, or empty.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode error: source=%s, err=%v", e.Source, e.Err)
	}
	return fmt.Sprintf("decode error: source=%s, path=%s, err=%v", e.Source, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError creates a new DecodeError with the given details.
func NewDecodeError(source, path string, err error) *DecodeError {
	return &DecodeError{
		Source: source,
		Path:   path,
		Err:    err,
	}
}
