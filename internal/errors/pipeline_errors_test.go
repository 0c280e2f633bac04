package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineConstructors_WrapSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"empty input", EmptyInput("vazio"), ErrEmptyInput},
		{"missing column", MissingRequiredColumn([]string{"Data"}), ErrMissingRequiredColumn},
		{"unsupported", UnsupportedFormat(".pdf"), ErrUnsupportedFormat},
		{"parse", ParseFailure("a.csv", fmt.Errorf("eof")), ErrParseFailure},
		{"export", ExportUnavailable("PDF"), ErrExportUnavailable},
		{"range", InvalidRange("b", "a"), ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.target))
			assert.True(t, IsPipelineError(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}

func TestParseFailure_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("invalid utf-8")
	err := ParseFailure("entregas.csv", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "entregas.csv", err.Context["filename"])
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Formato de arquivo não suportado: .txt", UserMessage(fmt.Errorf("load: %w", UnsupportedFormat(".txt"))))
	assert.Equal(t, "plain", UserMessage(fmt.Errorf("plain")))
	assert.False(t, IsPipelineError(ErrInvalidCredentials))
}

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrTypeStorage, "write users file", fmt.Errorf("disk full"))
	assert.Equal(t, "[STORAGE] write users file: disk full", err.Error())
	assert.Equal(t, "[VALIDATION] bad", NewAppValidationError("bad").Error())
}
