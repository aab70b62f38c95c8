package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store operations. Callers distinguish
// them with errors.Is; anything else is an underlying storage failure.
var (
	// ErrNotFound indicates the addressed task or dependency does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCycle indicates a dependency insert would make the task graph cyclic.
	ErrCycle = errors.New("dependency would create a cycle")

	// ErrSelfReference indicates a task was asked to depend on itself.
	ErrSelfReference = errors.New("task cannot depend on itself")
)

// ValidationError reports invalid caller input: a missing required
// field, an empty or oversized batch, or an empty update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
