package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrForceRequired is returned when a destructive command runs without a
// terminal to confirm it and --force was not given.
var ErrForceRequired = errors.New("confirmation required: pass --force to proceed")

// CliError is the error shape every command reports. Code is one of the
// Code* constants and is what scripts match on.
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	cause     error
}

func NewCliError(code, message string, details ...string) *CliError {
	e := &CliError{Code: code, Message: message, Timestamp: time.Now()}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func (e *CliError) Error() string {
	if e.Details == "" {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func (e *CliError) Unwrap() error { return e.cause }

// WithContext attaches a value that is logged alongside the error.
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// WithCause keeps the original error reachable through errors.Is and errors.As.
func (e *CliError) WithCause(cause error) *CliError {
	e.cause = cause
	return e
}

// IsTimeoutError reports whether err is a deadline or a CliError already
// classified as a timeout.
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var cliErr *CliError
	return errors.As(err, &cliErr) && cliErr.Code == CodeTimeout
}
