package errors

import "strings"

// ErrorType classifies an AppError for logging and HTTP mapping
type ErrorType string

const (
	ErrTypeInput      ErrorType = "INPUT"
	ErrTypeFormat     ErrorType = "FORMAT"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeExport     ErrorType = "EXPORT"
	ErrTypeAuth       ErrorType = "AUTH"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypePermission ErrorType = "PERMISSION"
)

// AppError carries an operator-facing message (usually Portuguese) on top
// of a cause. Cause is normally one of the sentinels in pipeline_errors.go
// so callers can branch with errors.Is.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString("[" + string(e.Type) + "] " + e.Message)
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithContext attaches a value that is rendered under "context" in
// problem responses.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = map[string]interface{}{}
	}
	e.Context[key] = value
	return e
}

// NewAppError builds an AppError; cause may be nil
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause}
}

// NewStorageError wraps a file system failure of the credential store or
// the reports directory.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError reports invalid operator input outside of request decoding
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewPermissionError reports a role that lacks the permission named in message
func NewPermissionError(message string) *AppError {
	return NewAppError(ErrTypePermission, message, ErrForbidden)
}
