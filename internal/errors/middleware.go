package errors

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxLoggedBody  = 64 * 1024
	maxLoggedChars = 500
	redacted       = "[REDACTED]"
)

// sensitiveFields are matched case-insensitively at any depth
var sensitiveFields = map[string]bool{
	"password":         true,
	"new_password":     true,
	"current_password": true,
	"token":            true,
	"secret":           true,
}

// ErrorMiddleware logs requests that end in a 4xx or 5xx status. Small
// JSON bodies are attached with credentials redacted; multipart uploads
// are never buffered.
type ErrorMiddleware struct {
	handler *ErrorHandler
	logger  *slog.Logger
}

// NewErrorMiddleware creates the failed-request logger
func NewErrorMiddleware(handler *ErrorHandler, logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		handler: handler,
		logger:  logger.With(slog.String("component", "error_middleware")),
	}
}

func (m *ErrorMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		body := captureJSONBody(r)

		defer func() {
			if err := recover(); err != nil {
				m.handler.HandlePanic(ww, r, err)
			}
		}()
		next.ServeHTTP(ww, r)

		if status := ww.Status(); status >= http.StatusBadRequest {
			m.logFailure(r, status, body)
		}
	})
}

// captureJSONBody reads a small JSON body and puts an identical reader
// back on the request.
func captureJSONBody(r *http.Request) []byte {
	if r.Body == nil || r.ContentLength <= 0 || r.ContentLength >= maxLoggedBody {
		return nil
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return body
}

func (m *ErrorMiddleware) logFailure(r *http.Request, status int, body []byte) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String("query", r.URL.RawQuery))
	}
	if len(body) > 0 {
		logged := sanitizeRequestBody(body)
		if len(logged) > maxLoggedChars {
			logged = logged[:maxLoggedChars] + "..."
		}
		attrs = append(attrs, slog.String("request_body", logged))
	}
	m.logger.LogAttrs(r.Context(), level, "request failed", attrs...)
}

// sanitizeRequestBody re-encodes a JSON body with credential fields
// redacted. Anything that does not parse as JSON is dropped.
func sanitizeRequestBody(body []byte) string {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "[unparsable body]"
	}
	out, err := json.Marshal(redact(data))
	if err != nil {
		return "[unparsable body]"
	}
	return string(out)
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			if sensitiveFields[strings.ToLower(k)] {
				t[k] = redacted
				continue
			}
			t[k] = redact(inner)
		}
	case []any:
		for i := range t {
			t[i] = redact(t[i])
		}
	}
	return v
}

// RecoveryMiddleware answers a panicking handler with a 500 problem
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					handler.HandlePanic(w, r, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
