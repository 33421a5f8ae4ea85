package errors

import "fmt"

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}

// ValidationError describes input the caller can fix and resubmit.
type ValidationError struct {
	Field  string
	Reason string
	cause  error
}

func NewValidationError(field string, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, cause: cause}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}
