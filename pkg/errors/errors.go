// Package errors provides structured error types for zenposter.
//
// Every failure the generator can report carries a machine-readable [Code] so
// callers can decide how far the failure reaches:
//
//   - INVALID_COLOR_FORMAT: a palette or background hex is malformed. Fatal
//     for a whole batch because every artwork depends on the palette table.
//   - INVALID_GEOMETRY, INVALID_CANVAS: fatal for one artwork only.
//   - EXPORT_SIZE: one derivative is skipped; siblings still export.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGeometry, "arch inner radius %v >= outer %v", in, out)
//	if errors.Is(err, errors.ErrCodeInvalidGeometry) {
//	    // abort this artwork
//	}
//
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Rendering errors
	ErrCodeInvalidColorFormat Code = "INVALID_COLOR_FORMAT"
	ErrCodeInvalidGeometry    Code = "INVALID_GEOMETRY"
	ErrCodeInvalidCanvas      Code = "INVALID_CANVAS"
	ErrCodeExportSize         Code = "EXPORT_SIZE"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidMode    Code = "INVALID_MODE"
	ErrCodeInvalidPalette Code = "INVALID_PALETTE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

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
// It walks the whole chain, including joined errors, so a Wrap(INTERNAL, ...)
// around an INVALID_GEOMETRY still matches both codes.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), code)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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

// Fatal reports whether err must abort an entire batch rather than a single
// artwork or derivative.
func Fatal(err error) bool {
	return Is(err, ErrCodeInvalidColorFormat) || Is(err, ErrCodeInvalidPalette)
}
