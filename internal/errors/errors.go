// Package errors provides coded domain errors for the dropsort pipeline.
//
// Usage:
//
//	// In the organizer - return typed errors
//	if err := os.MkdirAll(dir, 0o755); err != nil {
//	    return errors.Wrap(err, errors.CodeProvisioning, "create category directory")
//	}
//
//	// At the pipeline boundary - check with errors.Is
//	if errors.Is(err, errors.ErrPermissionSet) {
//	    log.Warn("permissions not applied", "error", err)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the pipeline.
const (
	// CodeProvisioning marks a category directory creation or chmod failure.
	CodeProvisioning Code = "PROVISIONING"
	// CodeMove marks a rename or copy+delete failure.
	CodeMove Code = "MOVE"
	// CodePermissionSet marks a post-move chmod failure. Non-fatal: the file
	// is still considered relocated.
	CodePermissionSet Code = "PERMISSION_SET"
	// CodeResolve marks a destination resolution failure (probe bound hit).
	CodeResolve Code = "RESOLVE"
	// CodeValidation marks invalid configuration or ruleset input.
	CodeValidation Code = "VALIDATION"
	// CodeInternal marks everything else.
	CodeInternal Code = "INTERNAL"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrProvisioning  = &Error{Code: CodeProvisioning, Message: "provisioning failed"}
	ErrMove          = &Error{Code: CodeMove, Message: "move failed"}
	ErrPermissionSet = &Error{Code: CodePermissionSet, Message: "permission set failed"}
	ErrResolve       = &Error{Code: CodeResolve, Message: "destination resolution failed"}
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// Provisioning creates a provisioning error.
func Provisioning(msg string) *Error {
	return &Error{Code: CodeProvisioning, Message: msg}
}

// Provisioningf creates a provisioning error with formatted message.
func Provisioningf(format string, args ...any) *Error {
	return &Error{Code: CodeProvisioning, Message: fmt.Sprintf(format, args...)}
}

// Move creates a move error.
func Move(msg string) *Error {
	return &Error{Code: CodeMove, Message: msg}
}

// Movef creates a move error with formatted message.
func Movef(format string, args ...any) *Error {
	return &Error{Code: CodeMove, Message: fmt.Sprintf(format, args...)}
}

// PermissionSet creates a permission set error.
func PermissionSet(msg string) *Error {
	return &Error{Code: CodePermissionSet, Message: msg}
}

// Resolve creates a destination resolution error.
func Resolve(msg string) *Error {
	return &Error{Code: CodeResolve, Message: msg}
}

// Resolvef creates a destination resolution error with formatted message.
func Resolvef(format string, args ...any) *Error {
	return &Error{Code: CodeResolve, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
