// Package domainerrors defines the typed error taxonomy crossing the core
// boundary. Services return *Error values; transports map Code to a status and
// expose Message (never the wrapped cause).
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error identifier.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"

	// Booking engine codes.
	CodeEligibilityDenied Code = "eligibility_denied"
	CodeSlotAlreadyBooked Code = "slot_already_booked"
	CodeSlotNotFound      Code = "slot_not_found"
	CodeStorageFailure    Code = "storage_failure"
)

// Error carries a code, a user-facing message and an optional sub-reason
// (e.g. the eligibility denial reason).
type Error struct {
	Code    Code
	Message string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without an underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithReason returns a copy of e carrying the given sub-reason.
func (e *Error) WithReason(reason string) *Error {
	cp := *e
	cp.Reason = reason
	return &cp
}

// As extracts the outermost *Error from err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost *Error in err's chain has code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ReasonOf returns the sub-reason of the outermost *Error, if any.
func ReasonOf(err error) string {
	if de, ok := As(err); ok {
		return de.Reason
	}
	return ""
}
