package notify

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taherahmed/portfolio-api/internal/api"
)

// Handler serves the notification relay endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a relay handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the relay endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/notify", h.HandleNotify)
}

// HandleNotify handles POST /api/notify: validates the payload, formats a
// structured Discord message and forwards it to the configured webhook.
func (h *Handler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	var p Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if p.Content == "" && !p.UserInfo.Present() {
		api.Error(w, http.StatusBadRequest, "either content or userInfo is required")
		return
	}

	if err := h.svc.Send(r.Context(), p); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			slog.Error("Notification webhook not configured")
			api.Error(w, http.StatusInternalServerError, "the server has not been configured with a notification webhook URL")
			return
		}
		slog.Error("Notification delivery failed", "type", p.MessageType, "error", err)
		api.JSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "error sending notification",
			"details": err.Error(),
		})
		return
	}

	slog.Info("Notification delivered", "type", p.MessageType)
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
