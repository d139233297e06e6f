package export

import (
	"errors"
	"fmt"

	"cytosight/csvexport/pkg/dataset"
)

// ErrUnwritableTarget is wrapped by every error caused by a file that
// could not be opened for writing.
var ErrUnwritableTarget = errors.New("target is not writable")

// ExportError represents a failed export step.
type ExportError struct {
	Op    string       // Step that failed ("open", "write", "lock", "render")
	Path  string       // Target file, if any
	Kind  dataset.Kind // Dataset kind being exported
	Cause error        // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export %s error [kind=%s, path=%s]: %v", e.Op, e.Kind, e.Path, e.Cause)
	}
	return fmt.Sprintf("export %s error [kind=%s]: %v", e.Op, e.Kind, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(op, path string, kind dataset.Kind, cause error) *ExportError {
	return &ExportError{
		Op:    op,
		Path:  path,
		Kind:  kind,
		Cause: cause,
	}
}

// unwritable marks err as an open failure on a target file.
func unwritable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnwritableTarget, err)
}
