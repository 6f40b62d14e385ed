package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrInvalidAmount = &ValidationError{Field: "amount", Reason: "must be a non-negative number"}
	ErrEmptyCategory = &ValidationError{Field: "category", Reason: "cannot be empty"}
)

// ValidationError reports caller input that cannot become an expense.
// It is never persisted.
type ValidationError struct {
	Field  string
	Reason string
	Value  string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError on the same field, so callers can write
// errors.Is(err, core.ErrInvalidAmount).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Field == e.Field
}

// StorageError wraps a failure of the backing datastore.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
