package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/middleware"
	api "logisticsmart/pkg/contracts/api/v1"
	"logisticsmart/pkg/contracts/domain"
)

// UserHandler manages accounts. Every route requires manage_users.
type UserHandler struct {
	service      AuthService
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewUserHandler creates a user handler
func NewUserHandler(service AuthService, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "users")),
	}
}

// Routes returns the user routes. They expect RequireAuth upstream.
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequirePermission(domain.PermManageUsers, h.errorHandler))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{username}/password", h.UpdatePassword)
	r.Delete("/{username}", h.Deactivate)
	return r
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.UsersResponse{Users: h.service.ListUsers(r.Context())})
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Username, req.Password, req.Name, domain.ParseUserRole(req.Role))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user created",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// UpdatePassword handles PUT /api/users/{username}/password
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req api.PasswordRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.service.UpdatePassword(r.Context(), username, req.Password); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "password updated", slog.String("username", username))
	render.JSON(w, r, api.StatusResponse{Success: true, Message: "Senha atualizada"})
}

// Deactivate handles DELETE /api/users/{username}. Accounts are disabled,
// never erased, and their open sessions are closed.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if sess, ok := middleware.SessionFromContext(r.Context()); ok && strings.EqualFold(strings.TrimSpace(username), sess.User.Username) {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("username", "cannot deactivate your own account"))
		return
	}
	if err := h.service.Deactivate(r.Context(), username); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user deactivated", slog.String("username", username))
	render.JSON(w, r, api.StatusResponse{Success: true, Message: "Usuário desativado"})
}
