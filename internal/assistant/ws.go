package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/taherahmed/portfolio-api/internal/domain"
	"github.com/taherahmed/portfolio-api/internal/identity"
)

// maxWSHistory caps the per-connection history kept for completion context.
const maxWSHistory = 20

// WSHandler serves the WebSocket chat transport. Each connection carries
// one visitor conversation: the handler keeps the turn history for the
// connection and runs every inbound message through the same turn pipeline
// as the HTTP endpoint.
type WSHandler struct {
	svc           *Service
	allowedOrigin string
	isDev         bool
}

// NewWSHandler creates a WebSocket chat handler.
func NewWSHandler(svc *Service, allowedOrigin string, isDev bool) *WSHandler {
	return &WSHandler{svc: svc, allowedOrigin: allowedOrigin, isDev: isDev}
}

// wsInbound is a client frame.
type wsInbound struct {
	Type             string `json:"type"`
	Message          string `json:"message,omitempty"`
	IsFormSubmission bool   `json:"isFormSubmission,omitempty"`
}

// wsOutbound is a server frame.
type wsOutbound struct {
	Type         string          `json:"type"`
	Reply        string          `json:"reply,omitempty"`
	SessionState *domain.Session `json:"sessionState,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("Chat WebSocket connection", "visitor_id", visitorID, "session_id", sessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "visitor_id", visitorID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "visitor_id", visitorID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.chatLoop(ctx, ws, sessionID, visitorID)
	slog.Info("Chat WebSocket session ended", "visitor_id", visitorID, "session_id", sessionID)
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("Chat WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WSHandler) chatLoop(ctx context.Context, ws *websocket.Conn, sessionID, visitorID string) {
	var history []domain.Message

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("Chat WebSocket closed by client", "visitor_id", visitorID)
			} else {
				slog.Warn("Chat WebSocket read error", "error", err, "visitor_id", visitorID)
			}
			return
		}

		var msg wsInbound
		if err := json.Unmarshal(data, &msg); err != nil {
			if writeErr := h.writeJSON(ws, wsOutbound{Type: "error", Error: "invalid frame"}); writeErr != nil {
				slog.Debug("Failed to send error frame", "error", writeErr)
			}
			continue
		}

		switch msg.Type {
		case "chat":
			if msg.Message == "" {
				if err := h.writeJSON(ws, wsOutbound{Type: "error", Error: "message is required"}); err != nil {
					slog.Debug("Failed to send error frame", "error", err)
				}
				continue
			}

			result, err := h.svc.Turn(ctx, TurnRequest{
				Message:          msg.Message,
				History:          history,
				SessionID:        sessionID,
				IsFormSubmission: msg.IsFormSubmission,
			})
			if err != nil {
				slog.Error("Chat WebSocket turn failed", "error", err, "visitor_id", visitorID)
			}

			reply := h.svc.FallbackReply()
			var state *domain.Session
			if result != nil {
				reply = result.Reply
				state = &result.Session
			}

			history = appendTurn(history, msg.Message, reply)
			if err := h.writeJSON(ws, wsOutbound{Type: "reply", Reply: reply, SessionState: state}); err != nil {
				slog.Warn("Chat WebSocket write error", "error", err, "visitor_id", visitorID)
				return
			}

		case "ping":
			if err := h.writeJSON(ws, wsOutbound{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}

		default:
			if err := h.writeJSON(ws, wsOutbound{Type: "error", Error: "unknown frame type"}); err != nil {
				slog.Debug("Failed to send error frame", "error", err)
			}
		}
	}
}

func appendTurn(history []domain.Message, userMsg, reply string) []domain.Message {
	history = append(history,
		domain.Message{Role: domain.RoleUser, Content: userMsg},
		domain.Message{Role: domain.RoleAssistant, Content: reply},
	)
	if len(history) > maxWSHistory {
		history = history[len(history)-maxWSHistory:]
	}
	return history
}

func (h *WSHandler) writeJSON(ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(context.Background(), websocket.MessageText, data)
}
