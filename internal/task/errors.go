package task

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrTextTooLong     = fmt.Errorf("task text exceeds %d characters", MaxTextLength)
	ErrInvalidPriority = errors.New("unknown priority")
	ErrNotFound        = errors.New("task not found")
)

// ValidationError reports user input that failed the text or priority rules.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return "invalid task: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation on an id that is not in the collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a failure to encode, decode, load or save the collection.
// The in-memory state is still authoritative when one is returned from a mutation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s tasks: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
