package errors

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/internal/shared/testutil"
)

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody([]byte(`{"username":"admin","password":"admin123"}`))
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, `"username":"admin"`)
	assert.NotContains(t, out, "admin123")

	assert.Equal(t, "[unparsable body]", sanitizeRequestBody([]byte("password=admin123")))
}

func TestSanitizeRequestBody_Nested(t *testing.T) {
	out := sanitizeRequestBody([]byte(`{"users":[{"username":"ana","Password":"s3cret!"}],"auth":{"token":"abc"}}`))
	assert.NotContains(t, out, "s3cret!")
	assert.NotContains(t, out, "abc")
	assert.Contains(t, out, `"username":"ana"`)
}

func TestErrorMiddleware_LogsFailedRequestWithRedactedBody(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, r.Body)
		seen = buf.String()
		w.WriteHeader(http.StatusUnauthorized)
	})

	payload := `{"username":"neo","password":"matrix"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	m.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, payload, seen, "handler must still read the full body")

	require.Equal(t, 1, handler.Count())
	entry, ok := handler.Find(slog.LevelWarn, "request failed")
	require.True(t, ok)
	body, _ := entry.Attrs["request_body"].(string)
	assert.Contains(t, body, "neo")
	assert.NotContains(t, body, "matrix")
}

func TestErrorMiddleware_SkipsSuccessAndUploads(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/reports/query", strings.NewReader(`{"date":"15/03/2026"}`))
	req.Header.Set("Content-Type", "application/json")
	m.Handler(ok).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 0, handler.Count())

	failed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	req = httptest.NewRequest(http.MethodPost, "/api/reports/upload", strings.NewReader("--boundary--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")
	m.Handler(failed).ServeHTTP(httptest.NewRecorder(), req)

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "request failed")
	for _, r := range handler.Entries() {
		assert.NotContains(t, r.Attrs, "request_body")
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	m.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	testutil.AssertLogContains(t, handler, slog.LevelError, "panic recovered")
}
