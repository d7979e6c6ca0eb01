package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors by originating concern.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeInternal      ErrorType = "internal"
	ErrorTypeExternal      ErrorType = "external"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeTracking      ErrorType = "tracking"
	ErrorTypeCleanup       ErrorType = "cleanup"
	ErrorTypeAlertDispatch ErrorType = "alert_dispatch"
	ErrorTypeReport        ErrorType = "report"
)

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Retryable bool                   `json:"retryable"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Error constructors
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeInternal,
		Code:      "INTERNAL_ERROR",
		Message:   message,
		Retryable: true,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:      ErrorTypeNotFound,
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("%s not found", resource),
		Retryable: false,
	}
}

func NewExternalError(service, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeExternal,
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("%s service error: %s", service, message),
		Retryable: true,
		Details:   map[string]interface{}{"service": service},
	}
}

// NewTrackingError marks a failure inside the activity recording path.
// These never reach callers of the public record entry points.
func NewTrackingError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeTracking,
		Code:      "ACTIVITY_TRACKING_ERROR",
		Message:   message,
		Retryable: true,
	}
}

// NewCleanupError marks a failure in retention pruning.
func NewCleanupError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeCleanup,
		Code:      "CLEANUP_ERROR",
		Message:   message,
		Retryable: true,
	}
}

// NewAlertDispatchError marks a failure in one of the alert pipeline actions.
func NewAlertDispatchError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeAlertDispatch,
		Code:      "ALERT_TRIGGER_ERROR",
		Message:   message,
		Retryable: true,
	}
}

// NewReportError marks a failure while building a security report.
func NewReportError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeReport,
		Code:      "REPORT_ERROR",
		Message:   message,
		Retryable: true,
	}
}

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// Code extracts the machine-readable code from an error, if any.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
