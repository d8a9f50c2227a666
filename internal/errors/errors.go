// Package errors provides centralized error definitions and error handling utilities
// for potpanel. It defines sentinel errors, typed errors carrying device or
// configuration context, and classification helpers.
//
// # Error Types
//
// The coordination core itself has no recoverable-error taxonomy: its waits are
// unbounded and its primitives cannot fail once created. Errors only arise at the
// edges of the system:
//   - DeviceError: a hardware backend (GPIO, ADC, display, serial) failed an operation
//   - ValidationError: invalid configuration or an out-of-range argument
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewDeviceError("serial", "write", ioErr).WithRetryable(true)
//	err := errors.NewValidationError("must be 0 or 1").WithField("adc.initial_channel").WithValue(3)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrDeviceUnavailable) { ... }
//
//	var devErr *errors.DeviceError
//	if errors.As(err, &devErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityWarning is for errors a task can survive by retrying on its next iteration.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that prevent the panel from starting.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
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

// Device-related sentinel errors
var (
	// ErrDeviceUnavailable indicates that a device could not be opened or found.
	ErrDeviceUnavailable = New("device unavailable")
	// ErrUnknownLine indicates a digital input line id outside the two monitored lines.
	ErrUnknownLine = New("unknown input line")
	// ErrInvalidChannel indicates an analog channel selector other than 0 or 1.
	ErrInvalidChannel = New("invalid analog channel")
	// ErrInvalidDigit indicates a display value outside 0-9.
	ErrInvalidDigit = New("invalid display digit")
	// ErrClosed indicates an operation on a device that has been closed.
	ErrClosed = New("device closed")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrTaskFailed indicates that a scheduled task stopped with an error.
	ErrTaskFailed = New("task failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PanelError is the base interface for all potpanel errors.
type PanelError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed when a task
	// repeats it on its next iteration.
	IsRetryable() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
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

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// -----------------------------------------------------------------------------
// DeviceError
// -----------------------------------------------------------------------------

// DeviceError represents a failed operation on a hardware backend.
//
// Example:
//
//	err := errors.NewDeviceError("display", "write digit", errors.ErrInvalidDigit).WithValue(12)
type DeviceError struct {
	baseError
	Device string
	Op     string
	Value  any
}

// NewDeviceError creates a new DeviceError. Device errors default to
// retryable: the task that hit it simply tries again next iteration.
func NewDeviceError(device, op string, cause error) *DeviceError {
	return &DeviceError{
		baseError: baseError{
			message:   op,
			cause:     cause,
			severity:  SeverityWarning,
			retryable: true,
		},
		Device: device,
		Op:     op,
	}
}

// WithValue records the argument that the device rejected.
func (e *DeviceError) WithValue(v any) *DeviceError {
	e.Value = v
	return e
}

// WithSeverity sets the error severity.
func (e *DeviceError) WithSeverity(s Severity) *DeviceError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *DeviceError) WithRetryable(r bool) *DeviceError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *DeviceError) Error() string {
	prefix := fmt.Sprintf("device error [%s]", e.Device)
	msg := e.Op
	if e.Value != nil {
		msg = fmt.Sprintf("%s (value=%v)", e.Op, e.Value)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or configuration.
//
// Example:
//
//	err := errors.NewValidationError("must be positive").WithField("display.digit_hold_ticks").WithValue(0)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			severity: SeverityCritical,
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

// IsRetryable returns true if the error represents a transient condition.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var panelErr PanelError
	if As(err, &panelErr) {
		return panelErr.IsRetryable()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PanelError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var panelErr PanelError
	if As(err, &panelErr) {
		return panelErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to open serial port")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
