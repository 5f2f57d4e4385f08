package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gamelink/platform-controller/pkg/platform"
)

// Common application error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the request cannot run in the current state
	ErrConflict = errors.New("resource conflict")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")

	// ErrServiceUnavailable indicates a service is unavailable
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ValidationError represents validation-specific errors
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// APIError represents API-specific errors with HTTP status codes
type APIError struct {
	Code    int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API error %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new API error
func NewAPIError(code int, message string, err error) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HTTPStatus maps an error to the HTTP status the API answers with.
// Platform operation errors carry their own kinds; application sentinels
// map directly; anything unrecognized is an internal error.
func HTTPStatus(err error) int {
	var apiErr *APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.Is(err, platform.ErrInvalidParam), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, platform.ErrNotInitialized), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, platform.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, platform.ErrNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if an error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As checks if an error can be assigned to target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
