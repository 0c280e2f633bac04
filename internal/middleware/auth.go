package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"logisticsmart/internal/auth"
	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/internal/session"
	"logisticsmart/pkg/contracts/domain"
)

// SessionCookie is the cookie consulted when no Authorization header is sent
const SessionCookie = "logisticsmart_session"

type sessionContextKey struct{}

// SessionResolver maps a bearer token to a live session
type SessionResolver interface {
	Session(ctx context.Context, token string) (*session.Session, error)
}

// WithSession stores sess on ctx
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey{}, sess)
	return infrastructure.WithUsername(ctx, sess.User.Username)
}

// SessionFromContext returns the session set by RequireAuth
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*session.Session)
	return sess, ok && sess != nil
}

// BearerToken extracts the session token from the Authorization header or
// the session cookie
func BearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth rejects requests without a live session with 401 and puts the
// session on the context of the others
func RequireAuth(resolver SessionResolver, handler *apperrors.ErrorHandler, logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "auth_middleware"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := BearerToken(r)
			if token == "" {
				logger.WarnContext(ctx, "missing session token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr))
				handler.HandleError(w, r, apperrors.ErrUnauthorized)
				return
			}

			sess, err := resolver.Session(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "session rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				handler.HandleError(w, r, apperrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

// RequirePermission rejects requests whose session role lacks perm with 403.
// It must run after RequireAuth.
func RequirePermission(perm domain.Permission, handler *apperrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				handler.HandleError(w, r, apperrors.ErrUnauthorized)
				return
			}
			if !auth.PermissionsFor(sess.User.Role).Allows(perm) {
				handler.HandleError(w, r, apperrors.NewPermissionError("Permissão insuficiente: "+string(perm)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuditLog records state-changing requests with the acting user
func AuditLog(logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "audit"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			aw := &auditResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(aw, r)

			user := ""
			if sess, ok := SessionFromContext(r.Context()); ok {
				user = sess.User.Username
			}
			logger.InfoContext(r.Context(), "audit",
				slog.String("user", user),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", aw.statusCode),
				slog.String("request_id", GetRequestID(r.Context())))
		})
	}
}

type auditResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (w *auditResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *auditResponseWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
