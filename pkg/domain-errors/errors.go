// Package derrors defines coded domain errors shared across services and the
// HTTP layer. Services translate sentinel errors from stores and clients into
// these; the transport layer maps codes to status codes.
package derrors

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeBadRequest  Code = "bad_request"
	CodeNotFound    Code = "not_found"
	CodeConflict    Code = "conflict"
	CodeUnavailable Code = "unavailable"
	CodeInternal    Code = "internal_error"
)

// Error carries a code plus a human-readable message. The wrapped cause, when
// present, is for logs only and must never reach API responses.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// GetCode returns the code carried by err, or CodeInternal for uncoded errors.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ValidationError reports every missing or malformed field of a request, not
// just the first one found.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// NewValidation builds a ValidationError wrapped with CodeBadRequest so it
// flows through the usual code mapping.
func NewValidation(fields []string) error {
	ve := &ValidationError{Fields: fields}
	return &Error{Code: CodeBadRequest, Message: ve.Error(), cause: ve}
}
