// Package errors provides centralized error definitions and error handling
// utilities for ringtail. It defines sentinel errors, a small set of error
// types carrying structured context, and classification helpers.
//
// # Error Types
//
//   - ScriptError: a replay script operation that could not be parsed or run
//   - NotFoundError: a file or resource that does not exist
//   - ValidationError: invalid input or configuration
//
// # Usage
//
//	err := errors.NewScriptError("unrecognized operation", errors.ErrUnknownOp).
//		WithStep(3).WithOp("peek")
//
//	if errors.Is(err, errors.ErrUnknownOp) { ... }
//
//	var scriptErr *errors.ScriptError
//	if errors.As(err, &scriptErr) { ... }
//
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Input sentinel errors
var (
	// ErrInvalidInput indicates that provided input is invalid.
	ErrInvalidInput = New("invalid input")
	// ErrInvalidCapacity indicates a negative or otherwise unusable buffer capacity.
	ErrInvalidCapacity = New("invalid capacity")
	// ErrInvalidPattern indicates a match pattern that failed to compile.
	ErrInvalidPattern = New("invalid pattern")
)

// Script sentinel errors
var (
	// ErrUnknownOp indicates a script operation other than push, pop, or drain.
	ErrUnknownOp = New("unknown operation")
	// ErrMissingValue indicates a push operation without a value.
	ErrMissingValue = New("push requires a value")
	// ErrEmptyScript indicates a script with no operations.
	ErrEmptyScript = New("script has no operations")
)

// ErrFileNotFound indicates that an input file does not exist.
var ErrFileNotFound = New("file not found")

// RingtailError is the interface shared by the error types in this package.
type RingtailError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// ScriptError
// -----------------------------------------------------------------------------

// ScriptError represents a replay script operation that failed.
//
// Example:
//
//	err := errors.NewScriptError("unrecognized operation", errors.ErrUnknownOp)
//	err = err.WithStep(2).WithOp("peek")
//	fmt.Println(err) // "script error [step=2, op=peek]: unrecognized operation: unknown operation"
type ScriptError struct {
	baseError
	Step int // 1-based; 0 means the error is not tied to a step
	Op   string
}

// NewScriptError creates a new ScriptError.
func NewScriptError(message string, cause error) *ScriptError {
	return &ScriptError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithStep records the 1-based step number the error occurred at.
func (e *ScriptError) WithStep(step int) *ScriptError {
	e.Step = step
	return e
}

// WithOp records the raw operation text.
func (e *ScriptError) WithOp(op string) *ScriptError {
	e.Op = op
	return e
}

// Error returns the formatted error message.
func (e *ScriptError) Error() string {
	var parts []string
	if e.Step > 0 {
		parts = append(parts, fmt.Sprintf("step=%d", e.Step))
	}
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	prefix := "script error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("script error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("file", "/var/log/app.log")
//	fmt.Println(err) // "file '/var/log/app.log' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrFileNotFound && e.ResourceType == "file" {
		return true
	}
	return false
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("capacity must be non-negative")
//	err = err.WithField("capacity").WithValue(-1)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users, i.e. some error in the chain implements RingtailError and reports
// itself as user-facing.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var rtErr RingtailError
	if As(err, &rtErr) {
		return rtErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement RingtailError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var rtErr RingtailError
	if As(err, &rtErr) {
		return rtErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to open %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
