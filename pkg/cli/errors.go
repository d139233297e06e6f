package cli

import (
	"errors"
	"fmt"

	"cytosight/csvexport/pkg/config"
)

// ConfigError represents an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents a failed command. Target names what the command
// acted on, such as a dataset or a document, and may be empty.
type CommandError struct {
	Command string
	Target  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("command %s failed for %s: %v", e.Command, e.Target, e.Err)
	}
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command, target string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Target:  target,
		Err:     err,
	}
}

// ConfigErrors flattens a config.ValidationError into one ConfigError per
// field. Other errors yield nil.
func ConfigErrors(err error) []*ConfigError {
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]*ConfigError, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		out = append(out, NewConfigError(fe.Field, fe.Message))
	}
	return out
}
