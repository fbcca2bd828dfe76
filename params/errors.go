package params

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError indicates a test case was misconfigured: a required
// parameter is missing or a value could not be coerced to its expected type.
// It surfaces as an Outcome with status error, never as a silent default.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{Message: message}
}

// NewMissingKeysError creates a ConfigurationError naming the absent
// required parameter keys.
func NewMissingKeysError(keys []string) *ConfigurationError {
	return &ConfigurationError{
		Message: fmt.Sprintf("missing required parameter(s): %s", strings.Join(keys, ", ")),
	}
}

// IsConfigurationError checks if the error is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return err != nil && errors.As(err, &cfgErr)
}
