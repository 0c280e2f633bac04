package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the report pipeline. Use errors.Is against these;
// the constructors below wrap them in an AppError with a readable message.
var (
	ErrEmptyInput            = errors.New("empty input")
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrParseFailure          = errors.New("parse failure")
	ErrExportUnavailable     = errors.New("export unavailable")
	ErrInvalidRange          = errors.New("invalid range")
	ErrNoDataLoaded          = errors.New("no data loaded")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("forbidden")
)

// EmptyInput reports a table without rows or without any usable cell
func EmptyInput(message string) *AppError {
	return NewAppError(ErrTypeInput, message, ErrEmptyInput)
}

// MissingRequiredColumn lists the required labels that matched no column
func MissingRequiredColumn(labels []string) *AppError {
	return NewAppError(ErrTypeInput,
		fmt.Sprintf("Colunas obrigatórias não encontradas: %s", strings.Join(labels, ", ")),
		ErrMissingRequiredColumn,
	).WithContext("missing", labels)
}

// UnsupportedFormat reports an unrecognized file extension
func UnsupportedFormat(ext string) *AppError {
	return NewAppError(ErrTypeFormat,
		fmt.Sprintf("Formato de arquivo não suportado: %s", ext),
		ErrUnsupportedFormat,
	).WithContext("extension", ext)
}

// ParseFailure reports bytes that could not be decoded by any attempt
func ParseFailure(filename string, cause error) *AppError {
	e := NewAppError(ErrTypeParsing,
		fmt.Sprintf("Não foi possível ler o arquivo %s", filename),
		errors.Join(ErrParseFailure, cause),
	)
	return e.WithContext("filename", filename)
}

// ExportUnavailable reports a format whose backend is missing at runtime
func ExportUnavailable(format string) *AppError {
	return NewAppError(ErrTypeExport,
		fmt.Sprintf("Formato de exportação indisponível: %s", format),
		ErrExportUnavailable,
	).WithContext("format", format)
}

// InvalidRange reports a date range whose start falls after its end
func InvalidRange(start, end string) *AppError {
	return NewAppError(ErrTypeValidation,
		fmt.Sprintf("Intervalo inválido: %s é posterior a %s", start, end),
		ErrInvalidRange,
	)
}

// IsPipelineError reports whether err belongs to the load/filter/export taxonomy
func IsPipelineError(err error) bool {
	for _, target := range []error{
		ErrEmptyInput, ErrMissingRequiredColumn, ErrUnsupportedFormat,
		ErrParseFailure, ErrExportUnavailable, ErrInvalidRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UserMessage returns the message to show an operator for err
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
