package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when budget or goal inputs cannot be
// computed: non-positive denominators, empty category lists, bad thresholds.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError names the field that failed validation.
type ConfigError struct {
	Field  string // e.g. "limit", "categories[Books].spent"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
