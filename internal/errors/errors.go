package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a transport-level failure with a stable machine code.
// ErrorHandler renders it as a problem with an "error_code" member.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render sets the response status for go-chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a failed request validation
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

const (
	codeInvalidRequest   = "INVALID_REQUEST"
	codeValidationFailed = "VALIDATION_FAILED"
	codeUnauthorized     = "UNAUTHORIZED"
	codePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	codeRateLimited      = "RATE_LIMIT_EXCEEDED"
	codeFileSystem       = "FILESYSTEM_ERROR"
)

var (
	ErrUnauthorized      = New(http.StatusUnauthorized, codeUnauthorized, "Authentication required")
	ErrPayloadTooLarge   = New(http.StatusRequestEntityTooLarge, codePayloadTooLarge, "Uploaded file exceeds the maximum allowed size")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, codeRateLimited, "Rate limit exceeded")
)

// New creates an APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

func withDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	e := New(statusCode, errorCode, message)
	e.Details = details
	return e
}

// InvalidRequestWithError reports a body or form that could not be decoded
func InvalidRequestWithError(err error) *APIError {
	return withDetails(http.StatusBadRequest, codeInvalidRequest, "Invalid request format", err.Error())
}

// NewValidationError reports a request rejected as a whole
func NewValidationError(message string) *APIError {
	return New(http.StatusBadRequest, codeValidationFailed, message)
}

// ErrValidation reports a single rejected field
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors reports every rejected field of a request
func NewValidationErrors(errs []ValidationError) *APIError {
	return withDetails(http.StatusBadRequest, codeValidationFailed, "Request validation failed",
		ValidationErrors{Errors: errs})
}

// FileSystemError reports a failed local file operation
func FileSystemError(operation string, err error) *APIError {
	return withDetails(http.StatusInternalServerError, codeFileSystem,
		fmt.Sprintf("File system error during %s", operation), err.Error())
}
