package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"logisticsmart/internal/services"
)

// HealthHandler serves the unauthenticated probes and /api/version
type HealthHandler struct {
	service HealthChecker
	logger  *slog.Logger
}

func NewHealthHandler(service HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes mounts /, /ready and /live
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, h.service.HealthCheck(r.Context()))
	})
	r.Get("/ready", h.ready)
	r.Get("/live", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, h.service.LivenessCheck(r.Context()))
	})
	return r
}

// ready answers 503 until every component is ready
func (h *HealthHandler) ready(w http.ResponseWriter, r *http.Request) {
	st := h.service.ReadinessCheck(r.Context())
	if st.Status != services.StatusReady {
		h.logger.WarnContext(r.Context(), "readiness probe failed", slog.Any("components", st.Components))
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, st)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
