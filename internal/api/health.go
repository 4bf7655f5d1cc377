package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taherahmed/portfolio-api/internal/session"
)

// HealthHandler reports service readiness.
type HealthHandler struct {
	store session.Store
}

// NewHealthHandler creates a health handler backed by the session store.
func NewHealthHandler(store session.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// RegisterRoutes mounts the health endpoint.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "sessionStore": "ok"}
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["sessionStore"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	JSON(w, code, status)
}
