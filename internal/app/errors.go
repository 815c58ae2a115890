package app

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates the record store could not be reached or did not
	// answer. No response body is available.
	ErrNetwork = errors.New("record store unreachable")

	// ErrRejected indicates the record store answered with a non-success
	// status. Use errors.As with *RejectedError for the status and message.
	ErrRejected = errors.New("request rejected")

	// ErrValidation indicates a request was refused locally and never sent.
	ErrValidation = errors.New("validation failed")
)

// RejectedError carries the status and server message of a rejected request.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// ValidationError names the offending field of a locally refused request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid is shorthand for a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Message returns the user-facing text for an action error.
func Message(err error) string {
	var rejected *RejectedError
	var invalid *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &rejected):
		return rejected.Error()
	case errors.Is(err, ErrNetwork):
		return "cannot reach the task server"
	}
	return err.Error()
}
