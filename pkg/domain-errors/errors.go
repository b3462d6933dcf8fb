// Package domainerrors carries coded errors across service and transport layers.
//
// Services return errors built with New or Wrap; handlers translate the code into
// an HTTP status via httputil.WriteError. Any error that implements Coder (for
// example the validation taxonomy) participates in the same lookup.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, client-facing error identifier.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeValidation         Code = "validation_error"
	CodeBadRequest         Code = "bad_request"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeReferenceNotFound  Code = "reference_not_found"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Coder is implemented by errors that expose a domain code.
type Coder interface {
	ErrorCode() Code
}

// Error is the default coded error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode implements Coder.
func (e *Error) ErrorCode() Code {
	return e.Code
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the outermost code found in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return CodeInternal
}

// HasCode reports whether the outermost coded error in the chain carries code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Details identifies the entity kind, field and offending value behind an error.
type Details struct {
	Entity string
	Field  string
	Value  any
}

// Detailer is implemented by errors that can point at a specific field.
type Detailer interface {
	ErrorDetails() Details
}

// DetailsOf returns the details carried by err, if any.
func DetailsOf(err error) (Details, bool) {
	var d Detailer
	if errors.As(err, &d) {
		return d.ErrorDetails(), true
	}
	return Details{}, false
}
