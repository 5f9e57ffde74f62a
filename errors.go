package inkpot

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrConstraintViolation matches every *ConstraintError.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStoreUnavailable wraps driver failures that are not constraint errors.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ConstraintError reports a write rejected by a column constraint.
type ConstraintError struct {
	Field   string // column / form field, empty when unknown
	Message string
	Err     error
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("constraint violation: %s", e.Message)
	}
	return fmt.Sprintf("constraint violation on %s: %s", e.Field, e.Message)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{ErrConstraintViolation, e.Err}
}

// FieldErrors converts the violation into a form error map. Columns the
// form does not expose, such as date, are reported against the title.
func (e *ConstraintError) FieldErrors() FieldErrors {
	field := e.Field
	if !slices.Contains(FormFields, field) {
		field = FieldTitle
	}
	return FieldErrors{field: e.Message}
}
