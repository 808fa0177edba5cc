// Package errors provides structured error types for msaflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes group failures by the stage that detects them:
//   - INVALID_DEFINITION, UNKNOWN_FUNCTION, INVALID_NETWORK: network construction
//   - UNREACHABLE_DESTINATION: raised during an assignment run
//   - NO_DEMAND: raised when evaluating an assignment with zero total demand
//   - INVALID_INPUT, NOT_FOUND, INTERNAL_ERROR: boundary errors (CLI, API, storage)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownFunction, "edge %s references unknown function %q", name, fn)
//	if errors.Is(err, errors.ErrCodeUnknownFunction) {
//	    // Handle reference error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnreachable, origErr, "od pair %s", od)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction errors
	ErrCodeInvalidDefinition Code = "INVALID_DEFINITION"
	ErrCodeUnknownFunction   Code = "UNKNOWN_FUNCTION"
	ErrCodeInvalidNetwork    Code = "INVALID_NETWORK"

	// Assignment errors
	ErrCodeUnreachable Code = "UNREACHABLE_DESTINATION"
	ErrCodeNoDemand    Code = "NO_DEMAND"

	// Boundary errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConstruction reports whether err points at the network definition
// (functions, edges, demand) rather than at the run itself.
func IsConstruction(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidDefinition, ErrCodeUnknownFunction, ErrCodeInvalidNetwork:
		return true
	}
	return false
}
