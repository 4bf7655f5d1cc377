package assistant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taherahmed/portfolio-api/internal/api"
	"github.com/taherahmed/portfolio-api/internal/domain"
	"github.com/taherahmed/portfolio-api/internal/identity"
	"github.com/taherahmed/portfolio-api/internal/llm"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20

// HandlerConfig holds HTTP-surface settings for the assistant endpoint.
type HandlerConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	MaxRequestBody    int64
}

// Handler serves the assistant HTTP endpoint.
type Handler struct {
	svc         *Service
	limiter     *RateLimiter
	maxBodySize int64
}

// NewHandler creates the assistant endpoint handler.
func NewHandler(svc *Service, cfg HandlerConfig) *Handler {
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 20
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	if cfg.MaxRequestBody <= 0 {
		cfg.MaxRequestBody = defaultMaxRequestBodySize
	}
	return &Handler{
		svc:         svc,
		limiter:     NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		maxBodySize: cfg.MaxRequestBody,
	}
}

// Close releases handler resources.
func (h *Handler) Close() {
	h.limiter.Close()
}

// RegisterRoutes mounts the assistant endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/assistant", h.HandleChat)
}

// chatRequest mirrors the front-end widget's request body.
type chatRequest struct {
	Message           string           `json:"message"`
	History           []domain.Message `json:"history"`
	SessionID         string           `json:"sessionId"`
	IsFormSubmission  bool             `json:"isFormSubmission"`
	ForceJSONResponse bool             `json:"forceJsonResponse"`
}

// chatResponse is the normal-path response envelope.
type chatResponse struct {
	Reply        string          `json:"reply"`
	SessionState *domain.Session `json:"sessionState,omitempty"`
}

// HandleChat handles POST /api/assistant.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	rateKey := identity.VisitorIDFromContext(r.Context())
	if rateKey == "" {
		rateKey = identity.IPFromRequest(r)
	}
	if !h.limiter.Allow(rateKey) {
		api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	// The idea-generator path: raw JSON passthrough, no extraction, no
	// session state, no relay.
	if req.ForceJSONResponse {
		reply, err := h.svc.RawJSON(r.Context(), req.Message)
		if err != nil {
			h.writeCompletionError(w, err, nil)
			return
		}
		api.JSON(w, http.StatusOK, chatResponse{Reply: reply})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = identity.SessionIDFromContext(r.Context())
	}
	sessionID = identity.SanitizeSessionID(sessionID)

	result, err := h.svc.Turn(r.Context(), TurnRequest{
		Message:          req.Message,
		History:          req.History,
		SessionID:        sessionID,
		IsFormSubmission: req.IsFormSubmission,
	})
	if err != nil {
		h.writeCompletionError(w, err, result)
		return
	}

	api.JSON(w, http.StatusOK, chatResponse{Reply: result.Reply, SessionState: &result.Session})
}

// writeCompletionError normalizes failures: configuration problems surface
// as a JSON error, everything else as a 500 carrying a human-readable
// fallback reply so the widget always has something to show.
func (h *Handler) writeCompletionError(w http.ResponseWriter, err error, result *TurnResult) {
	if errors.Is(err, llm.ErrNotConfigured) {
		slog.Error("Assistant request failed: provider not configured")
		api.Error(w, http.StatusInternalServerError, "completion provider API key not configured")
		return
	}

	slog.Error("Assistant request failed", "error", err)
	resp := chatResponse{Reply: h.svc.FallbackReply()}
	if result != nil {
		resp.Reply = result.Reply
	}
	api.JSON(w, http.StatusInternalServerError, resp)
}
