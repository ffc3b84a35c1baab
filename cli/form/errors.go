package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClosed is returned when editing or submitting a closed form.
	ErrClosed = errors.New("form is not open")
	// ErrSubmitInFlight is returned while a previous submission is outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrUnknownField is returned by SetField for names the schema does not define.
	ErrUnknownField = errors.New("unknown field")
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidValue matches every FieldError.
	ErrInvalidValue = errors.New("invalid field value")
)

// ValidationError lists the draft fields that block submission. It never
// reaches the network layer.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: fix %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldError reports a rejected SetField value. The field keeps its previous value.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %q %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidValue
}
