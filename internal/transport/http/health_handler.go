package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fundx/internal/services"
)

// HealthHandler serves the probe and version endpoints
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Register adds the probe routes under r:
//
//	GET /health        overall status
//	GET /health/ready  output directory and Sheets checks
//	GET /health/live   process liveness
//	GET /version       build and supported formats
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/health/ready", h.ReadinessCheck)
	r.Get("/health/live", h.LivenessCheck)
	r.Get("/version", h.Version)
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.service.HealthCheck(r.Context()))
}

// ReadinessCheck answers 503 while any dependency is not ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status == "ready" {
		respond(w, r, http.StatusOK, status)
		return
	}
	h.logger.WarnContext(r.Context(), "Readiness check failed", slog.Any("services", status.Services))
	respond(w, r, http.StatusServiceUnavailable, status)
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.service.LivenessCheck(r.Context()))
}

func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.service.Version())
}

// respond writes an uncached JSON body
func respond(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Cache-Control", "no-store")
	render.Status(r, code)
	render.JSON(w, r, v)
}
