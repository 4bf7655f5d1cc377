// Package assistant implements the conversational turn pipeline: extraction,
// session gating, notification relay and the proxied completion call.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taherahmed/portfolio-api/internal/domain"
	"github.com/taherahmed/portfolio-api/internal/extract"
	"github.com/taherahmed/portfolio-api/internal/gate"
	"github.com/taherahmed/portfolio-api/internal/llm"
	"github.com/taherahmed/portfolio-api/internal/notify"
	"github.com/taherahmed/portfolio-api/internal/session"
)

// DefaultFallbackReply is returned to the visitor whenever the completion
// provider fails; the user always receives a substitute reply, never a bare
// error.
const DefaultFallbackReply = "I'm having trouble right now. Please try again or email Taher directly at hello@taherahmed.dev."

// Notifier delivers relay payloads. Implemented by notify.Service.
type Notifier interface {
	Send(ctx context.Context, p notify.Payload) error
}

// Config holds turn-pipeline settings.
type Config struct {
	// HistoryWindowInfo is the number of history turns scanned for contact
	// and project extraction.
	HistoryWindowInfo int
	// HistoryWindowIntent is the narrower window used for the
	// project-related check, so stale topics do not keep gating.
	HistoryWindowIntent int
	// FallbackReply substitutes for the provider reply on failure.
	FallbackReply string
}

// TurnRequest is one conversational turn.
type TurnRequest struct {
	Message          string
	History          []domain.Message
	SessionID        string
	IsFormSubmission bool
}

// TurnResult carries the reply and the session as persisted after the turn.
type TurnResult struct {
	Reply   string
	Session domain.Session
}

// Service orchestrates one conversational turn end to end.
type Service struct {
	store    session.Store
	llm      llm.Client
	notifier Notifier
	cfg      Config
}

// NewService creates the turn pipeline. Zero-valued Config fields fall back
// to the extraction defaults.
func NewService(store session.Store, client llm.Client, notifier Notifier, cfg Config) *Service {
	if cfg.HistoryWindowInfo <= 0 {
		cfg.HistoryWindowInfo = extract.DefaultInfoWindow
	}
	if cfg.HistoryWindowIntent <= 0 {
		cfg.HistoryWindowIntent = extract.DefaultIntentWindow
	}
	if cfg.FallbackReply == "" {
		cfg.FallbackReply = DefaultFallbackReply
	}
	return &Service{store: store, llm: client, notifier: notifier, cfg: cfg}
}

// Turn handles a normal conversational turn. On a completion failure the
// returned result still carries the fallback reply and updated session,
// alongside the error, so the handler can respond degraded-but-usable.
func (s *Service) Turn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	sess, err := s.store.Get(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", req.SessionID, err)
	}
	if sess == nil {
		sess = domain.NewSession(req.SessionID)
	}

	info := extract.UserInfo(req.Message, req.History, s.cfg.HistoryWindowInfo)
	project := extract.ProjectInfo(req.Message, req.History, s.cfg.HistoryWindowInfo)
	related := extract.IsProjectRelated(req.Message, req.History, s.cfg.HistoryWindowIntent)

	decision := gate.Evaluate(*sess, gate.Input{
		IsFormSubmission: req.IsFormSubmission,
		Info:             info,
		Project:          project,
		ProjectRelated:   related,
	})
	next := decision.Session

	if n := decision.Notification; n != nil {
		if err := s.notifier.Send(ctx, relayPayload(req.Message, n)); err != nil {
			// Delivery failure must not abort the turn. NotificationSent
			// stays false so a later turn can fire again.
			slog.Error("Notification relay failed",
				"session_id", req.SessionID, "kind", n.Kind, "error", err)
		} else {
			slog.Info("Notification relay sent", "session_id", req.SessionID, "kind", n.Kind)
			next.MarkNotified()
		}
	}

	next.UpdatedAt = time.Now()
	if err := s.store.Put(ctx, &next); err != nil {
		// Losing session state degrades future gating but this turn's reply
		// can still be produced.
		slog.Warn("Failed to persist session", "session_id", req.SessionID, "error", err)
	}

	prompt := gate.SystemPrompt(gate.Flags{
		IsFormSubmission: req.IsFormSubmission,
		ProjectRelated:   related,
		HasProjectType:   next.ProjectType != "",
		HasContact:       next.ContactInfo != "",
		HasEmail:         info != nil && info.Email != "",
	})

	reply, err := s.llm.Complete(ctx, prompt, req.History, req.Message)
	if err != nil {
		return &TurnResult{Reply: s.cfg.FallbackReply, Session: next}, fmt.Errorf("completion: %w", err)
	}
	return &TurnResult{Reply: reply, Session: next}, nil
}

// RawJSON forwards a message for a strict-JSON completion. It never touches
// the session store and never triggers a relay.
func (s *Service) RawJSON(ctx context.Context, message string) (string, error) {
	return s.llm.CompleteJSON(ctx, message)
}

// FallbackReply exposes the configured substitute reply for handlers.
func (s *Service) FallbackReply() string {
	return s.cfg.FallbackReply
}

func relayPayload(message string, n *gate.Notification) notify.Payload {
	return notify.Payload{
		Content: message,
		UserInfo: notify.UserInfo{
			Name:           n.Info.Name,
			Email:          n.Info.Email,
			Phone:          n.Info.Phone,
			Company:        n.Info.Company,
			ProjectType:    string(n.ProjectType),
			FormSubmission: n.FormSubmission,
		},
		MessageType: notify.MessageType(n.Kind),
	}
}
