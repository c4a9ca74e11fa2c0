package errors

import (
	"fmt"
)

// MoaError is the structured error type for moa.
// It provides rich context for error handling, logging, and user presentation.
type MoaError struct {
	// Code is the unique error code (e.g., "ERR_301_QUERY_TIMEOUT").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Backend, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *MoaError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *MoaError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with MoaError.
func (e *MoaError) Is(target error) bool {
	if t, ok := target.(*MoaError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *MoaError) WithDetail(key, value string) *MoaError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *MoaError) WithSuggestion(suggestion string) *MoaError {
	e.Suggestion = suggestion
	return e
}

// New creates a new MoaError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *MoaError {
	return &MoaError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a MoaError from an existing error.
// The error's message becomes the MoaError message.
func Wrap(code string, err error) *MoaError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigurationError creates an error for a misconfigured or unreachable
// backend at construction time. The engine degrades rather than aborts.
func ConfigurationError(message string, cause error) *MoaError {
	return New(ErrCodeVectorUnavailable, message, cause)
}

// PartialIngestError creates an error for a vector-side write that failed
// after the keyword-side write succeeded. The chunk stays lexical-only.
func PartialIngestError(message string, cause error) *MoaError {
	return New(ErrCodePartialIngest, message, cause)
}

// QueryTimeoutError creates an error for a vector query exceeding its
// latency budget. The query falls back to keyword-only results.
func QueryTimeoutError(message string, cause error) *MoaError {
	return New(ErrCodeQueryTimeout, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *MoaError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *MoaError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if me, ok := err.(*MoaError); ok {
		return me.Retryable
	}
	return false
}

// IsDegradation reports whether an error is one of the three documented
// recoverable conditions that degrade service instead of failing the request.
func IsDegradation(err error) bool {
	switch GetCode(err) {
	case ErrCodeVectorUnavailable, ErrCodePartialIngest, ErrCodeQueryTimeout:
		return true
	}
	return false
}

// GetCode extracts the error code from a MoaError.
// Returns empty string if not a MoaError.
func GetCode(err error) string {
	if me, ok := err.(*MoaError); ok {
		return me.Code
	}
	return ""
}

// GetCategory extracts the category from a MoaError.
// Returns empty string if not a MoaError.
func GetCategory(err error) Category {
	if me, ok := err.(*MoaError); ok {
		return me.Category
	}
	return ""
}
