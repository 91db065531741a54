package query

import "fmt"

// ExecutionError is returned when a Query Handler has been found
// for a Query, but the Handler failed while evaluating it.
type ExecutionError struct {
	Query Query
	Err   error
}

// NewExecutionError wraps the Handler failure err for the provided Query.
func NewExecutionError(q Query, err error) *ExecutionError {
	return &ExecutionError{Query: q, Err: err}
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query: handler failed to evaluate '%s': %v", e.Query.Name(), e.Err)
}

// Unwrap returns the Handler failure.
func (e *ExecutionError) Unwrap() error { return e.Err }
