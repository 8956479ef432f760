// Package errors provides structured error types for seqsee.
//
// Every failure that leaves the core carries a machine-readable [Code] and a
// message naming the offending chart element (node id, edge index, alias or
// field), so callers can point the user at the bad input.
//
// # Error Codes
//
//   - SCHEMA_VIOLATION: the document does not have the chart shape
//   - DANGLING_REFERENCE: an edge names a node that does not exist
//   - INVALID_STYLE_VALUE, INVALID_PATTERN: malformed attribute data
//   - AMBIGUOUS_EDGE_TARGET: an edge declares neither or both of target/offset
//   - UNKNOWN_ALIAS, ALIAS_CYCLE: broken attribute alias references
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDanglingReference, "edge %d: unknown target %q", i, name)
//	if errors.Is(err, errors.ErrCodeDanglingReference) {
//	    // Report the broken edge
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSchemaViolation, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document shape errors
	ErrCodeSchemaViolation     Code = "SCHEMA_VIOLATION"
	ErrCodeAmbiguousEdgeTarget Code = "AMBIGUOUS_EDGE_TARGET"
	ErrCodeDanglingReference   Code = "DANGLING_REFERENCE"

	// Style errors
	ErrCodeInvalidStyleValue Code = "INVALID_STYLE_VALUE"
	ErrCodeInvalidPattern    Code = "INVALID_PATTERN"
	ErrCodeUnknownAlias      Code = "UNKNOWN_ALIAS"
	ErrCodeAliasCycle        Code = "ALIAS_CYCLE"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// As is errors.As from the standard library, re-exported so callers that
// import this package under the name errors can still reach it.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// IsFatalInput reports whether err was caused by bad chart input rather than
// an environment or internal failure. The HTTP API maps these to 422.
func IsFatalInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeSchemaViolation, ErrCodeAmbiguousEdgeTarget, ErrCodeDanglingReference,
		ErrCodeInvalidStyleValue, ErrCodeInvalidPattern, ErrCodeUnknownAlias, ErrCodeAliasCycle:
		return true
	}
	return false
}
