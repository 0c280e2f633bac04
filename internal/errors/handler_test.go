package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"empty input", EmptyInput("Arquivo vazio"), http.StatusUnprocessableEntity, TypeEmptyInput},
		{"missing column", MissingRequiredColumn([]string{"Data prevista de entrega"}), http.StatusUnprocessableEntity, TypeMissingColumn},
		{"parse failure", ParseFailure("x.csv", fmt.Errorf("bad quote")), http.StatusUnprocessableEntity, TypeParseFailure},
		{"unsupported format", UnsupportedFormat(".txt"), http.StatusUnsupportedMediaType, TypeUnsupportedFormat},
		{"export unavailable", ExportUnavailable("PDF"), http.StatusServiceUnavailable, TypeExportUnavailable},
		{"invalid range", InvalidRange("2025-02-01", "2025-01-01"), http.StatusBadRequest, TypeInvalidRange},
		{"no data", fmt.Errorf("query: %w", ErrNoDataLoaded), http.StatusConflict, TypeNoDataLoaded},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, TypeUnauthorized},
		{"forbidden", NewPermissionError("manage_users required"), http.StatusForbidden, TypeForbidden},
		{"user exists", fmt.Errorf("create: %w", ErrUserExists), http.StatusConflict, TypeUserExists},
		{"validation", NewAppValidationError("username is required"), http.StatusBadRequest, TypeValidation},
		{"api error", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/reports/upload", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/reports/upload", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_CredentialsDetailIsUniform(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	a := h.ErrorToProblem(ErrInvalidCredentials, req)
	b := h.ErrorToProblem(fmt.Errorf("lookup neo: %w", ErrInvalidCredentials), req)

	assert.Equal(t, a.Detail, b.Detail)
	assert.Equal(t, a.Status, b.Status)
}

func TestErrorHandler_MissingColumnCarriesContext(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)
	req := httptest.NewRequest(http.MethodPost, "/api/reports/upload", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, MissingRequiredColumn([]string{"Data prevista de entrega"}))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "Data prevista de entrega")
	assert.Contains(t, body, "context")
	assert.Contains(t, body, "stack")
}

func TestErrorHandler_NilError(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	rec := httptest.NewRecorder()

	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, 0, handler.Count())
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/api/reports/query", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	testutil.AssertLogContains(t, handler, slog.LevelError, "panic recovered")
	assert.NotContains(t, rec.Body.String(), "nil map")
}
