package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes used across the service
const (
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeSchemaError   = "SCHEMA_ERROR"
	CodeUpstreamModel = "UPSTREAM_MODEL_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// NotFound reports a missing workbook, sheet, or column by name
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// InvalidInput reports a malformed request parameter
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// SchemaError reports required columns missing after reconciliation
func SchemaError(message string) *AppError {
	return New(CodeSchemaError, message)
}

// UpstreamModel reports a failure inside the persisted classifier or
// preprocessor during transform/predict
func UpstreamModel(cause error) *AppError {
	return &AppError{
		Code:    CodeUpstreamModel,
		Message: "model inference failed",
		Cause:   cause,
	}
}

// InternalError reports an unexpected failure
func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
