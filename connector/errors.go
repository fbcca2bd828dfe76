package connector

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Query when no connection is established.
var ErrNotConnected = errors.New("not connected to database")

// ConnectionError indicates a backend could not be reached or lost its
// connection. It surfaces as an Outcome with status error and never aborts
// the whole run.
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection failed: %v", e.Backend, e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(backend string, err error) *ConnectionError {
	return &ConnectionError{Backend: backend, Err: err}
}

// IsConnectionError checks if the error is or wraps a ConnectionError.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return err != nil && errors.As(err, &connErr)
}
