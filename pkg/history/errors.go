package history

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store.Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// ErrUnknownDriver is returned by NewStore for an unsupported driver.
var ErrUnknownDriver = errors.New("unknown history driver")

// StorageError represents an error from a history backend.
type StorageError struct {
	Backend   string // "sqlite3", "sqlite" or "memory"
	Operation string // "open", "record", "list", "count", "delete", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
