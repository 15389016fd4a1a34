package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents one invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// MissingParameter reports a required query or form parameter that was not sent.
func MissingParameter(name string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "MISSING_PARAMETER", fmt.Sprintf("parameter %q is required", name), name)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// StatusFor maps an application error type to its HTTP status.
func StatusFor(t ErrorType) int {
	switch t {
	case ErrTypeFormat:
		return http.StatusUnprocessableEntity
	case ErrTypeIO, ErrTypeValidation:
		return http.StatusBadRequest
	case ErrTypeDuplicateDate:
		return http.StatusConflict
	case ErrTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError converts an AppError into the API error sent to clients.
// Storage and config causes are not exposed.
func FromAppError(e *AppError) *APIError {
	status := StatusFor(e.Type)
	if status == http.StatusInternalServerError {
		return NewWithDetails(status, string(e.Type), "Internal server error", nil)
	}
	if len(e.Fields) > 0 {
		return NewWithDetails(status, string(e.Type), e.Message, ValidationErrors{Errors: e.Fields})
	}
	if len(e.Context) > 0 {
		return NewWithDetails(status, string(e.Type), e.Message, e.Context)
	}
	return New(status, string(e.Type), e.Message)
}
