// Package errors provides unified error handling with structured error codes.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard helpers so callers import one errors package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Code classifies failures per the acquisition pipeline's error taxonomy.
type Code int

const (
	CodeUnknown Code = iota
	// CodeUnavailable marks OS facilities that could not answer
	// (permission denied, timeout, tool not found). Handled with a
	// documented fallback, never fatal for the tick.
	CodeUnavailable
	// CodeInvalidGeometry marks bounds outside expected ranges or a
	// degenerate crop. Degrades to the uncropped image.
	CodeInvalidGeometry
	// CodeIO marks log-partition or temp-file I/O failures.
	CodeIO
	// CodeLock marks idempotency-guard lock failures. Fails closed.
	CodeLock
	// CodeTimeout marks a bounded external call that overran its budget.
	CodeTimeout
)

var codeNames = map[Code]string{
	CodeUnknown:         "UNKNOWN",
	CodeUnavailable:     "UNAVAILABLE",
	CodeInvalidGeometry: "INVALID_GEOMETRY",
	CodeIO:              "IO",
	CodeLock:            "LOCK",
	CodeTimeout:         "TIMEOUT",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// AppError is the base error type with structured code and metadata.
type AppError struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.Metadata) > 0 {
		s += fmt.Sprintf(" %v", e.Metadata)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates a new AppError with the given code and message.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata adds metadata to an AppError.
func (e *AppError) WithMetadata(key, value string) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// IsCode checks if an error (anywhere in its chain) has a specific code.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsRetryable returns true if the error is potentially retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeUnavailable, CodeTimeout:
		return true
	default:
		return false
	}
}
