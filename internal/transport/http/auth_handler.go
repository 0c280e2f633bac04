package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/middleware"
	"logisticsmart/internal/session"
	api "logisticsmart/pkg/contracts/api/v1"
)

// AuthHandler serves login, logout and the current session
type AuthHandler struct {
	service      AuthService
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
	secureCookie bool
}

// NewAuthHandler creates an auth handler. secureCookie marks the session
// cookie Secure, for deployments behind TLS.
func NewAuthHandler(service AuthService, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "auth")),
		secureCookie: secureCookie,
	}
}

// Routes mounts login and demo publicly and the rest behind requireAuth
func (h *AuthHandler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/demo", h.DemoLogin)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
	return r
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sess, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "login failed",
			slog.String("remote_addr", r.RemoteAddr))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "login succeeded",
		slog.String("username", sess.User.Username),
		slog.String("role", string(sess.User.Role)))
	h.startSession(w, r, sess)
}

// DemoLogin handles POST /api/auth/demo
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.DemoLogin(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "demo login", slog.String("username", sess.User.Username))
	h.startSession(w, r, sess)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, api.LoginResponse{
		Token:       sess.Token,
		User:        sess.User,
		Permissions: h.service.Permissions(sess.User),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	h.service.Logout(r.Context(), sess.Token)

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, api.StatusResponse{Success: true, Message: "Sessão encerrada"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	snap := sess.Snapshot()

	resp := api.MeResponse{
		User:        sess.User,
		Permissions: h.service.Permissions(sess.User),
		Mode:        snap.Mode,
		Filters:     snap.Filters,
	}
	if snap.Loaded() {
		loadedAt := snap.LoadedAt
		resp.Filename = snap.Filename
		resp.LoadedAt = &loadedAt
		resp.Records = snap.Table.Len()
	}
	render.JSON(w, r, resp)
}
