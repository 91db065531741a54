package command

import "fmt"

// ExecutionError is returned when a Command Handler has been found
// for a Command, but the Handler failed while executing it.
//
// The original Command and the Handler failure are both retained,
// so that callers can tell a broken dispatch configuration apart
// from a business logic failure using errors.As.
type ExecutionError struct {
	Command Command
	Err     error
}

// NewExecutionError wraps the Handler failure err for the provided Command.
func NewExecutionError(cmd Command, err error) *ExecutionError {
	return &ExecutionError{Command: cmd, Err: err}
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command: handler failed to execute '%s': %v", e.Command.Name(), e.Err)
}

// Unwrap returns the Handler failure.
func (e *ExecutionError) Unwrap() error { return e.Err }
