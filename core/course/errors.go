package course

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a course id does not resolve to a row.
var ErrNotFound = errors.New("course not found")

// ValidationError reports a missing or malformed field. It is raised before any
// backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps any failure of the backing store.
type PersistenceError struct {
	// Op names the store operation, e.g. "insert_module".
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a PersistenceError for op. Nil stays nil and ErrNotFound is
// passed through untouched so callers can still match it.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
