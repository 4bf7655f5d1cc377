package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/taherahmed/portfolio-api/internal/domain"
	"github.com/taherahmed/portfolio-api/internal/llm"
	"github.com/taherahmed/portfolio-api/internal/notify"
	"github.com/taherahmed/portfolio-api/internal/session"
)

type stubLLM struct {
	reply      string
	jsonReply  string
	err        error
	lastSystem string
	calls      int
	jsonCalls  int
}

func (s *stubLLM) Complete(_ context.Context, system string, _ []domain.Message, _ string) (string, error) {
	s.calls++
	s.lastSystem = system
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) CompleteJSON(_ context.Context, _ string) (string, error) {
	s.jsonCalls++
	if s.err != nil {
		return "", s.err
	}
	return s.jsonReply, nil
}

type stubNotifier struct {
	err  error
	sent []notify.Payload
}

func (s *stubNotifier) Send(_ context.Context, p notify.Payload) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, p)
	return nil
}

func newTestService(model *stubLLM, notifier *stubNotifier) (*Service, *session.MemoryStore) {
	store := session.NewMemory()
	return NewService(store, model, notifier, Config{}), store
}

func TestTurnEmailTriggersSingleChatRelay(t *testing.T) {
	t.Parallel()

	model := &stubLLM{reply: "Thanks!"}
	notifier := &stubNotifier{}
	svc, _ := newTestService(model, notifier)
	ctx := context.Background()

	result, err := svc.Turn(ctx, TurnRequest{
		Message:   "Hi, I'm John and my email is john@example.com",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("Turn failed: %v", err)
	}
	if result.Reply != "Thanks!" {
		t.Errorf("Unexpected reply: %q", result.Reply)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("Expected exactly one relay, got %d", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.MessageType != notify.TypeChat {
		t.Errorf("Expected chat relay, got %q", sent.MessageType)
	}
	if sent.UserInfo.Email != "john@example.com" || sent.UserInfo.Name != "John" {
		t.Errorf("Unexpected payload info: %+v", sent.UserInfo)
	}
	if result.Session.State != domain.StateNotified || !result.Session.NotificationSent {
		t.Errorf("Expected notified session, got %+v", result.Session)
	}

	// A second email in the same session must not fire again.
	if _, err := svc.Turn(ctx, TurnRequest{
		Message:   "also try other@example.com",
		SessionID: "s1",
	}); err != nil {
		t.Fatalf("Turn failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("Expected the gate to hold, got %d relays", len(notifier.sent))
	}
}

func TestTurnProjectWithoutContactDoesNotRelay(t *testing.T) {
	t.Parallel()

	model := &stubLLM{reply: "Sure"}
	notifier := &stubNotifier{}
	svc, store := newTestService(model, notifier)
	ctx := context.Background()

	result, err := svc.Turn(ctx, TurnRequest{
		Message:   "I need a website for my bakery",
		SessionID: "s2",
	})
	if err != nil {
		t.Fatalf("Turn failed: %v", err)
	}

	if len(notifier.sent) != 0 {
		t.Fatalf("Expected no relay without contact, got %d", len(notifier.sent))
	}
	if result.Session.ProjectType != domain.ProjectWebsite {
		t.Errorf("Expected Website project type, got %q", result.Session.ProjectType)
	}
	if !strings.Contains(model.lastSystem, "Ask for their email") {
		t.Errorf("Expected email-ask guidance, got %q", model.lastSystem)
	}

	sess, _ := store.Get(ctx, "s2")
	if sess == nil || sess.State != domain.StateInformed {
		t.Fatalf("Expected informed session persisted, got %+v", sess)
	}
}

func TestTurnProjectThenEmailRelaysWithStoredType(t *testing.T) {
	t.Parallel()

	model := &stubLLM{reply: "ok"}
	notifier := &stubNotifier{}
	svc, _ := newTestService(model, notifier)
	ctx := context.Background()

	if _, err := svc.Turn(ctx, TurnRequest{
		Message:   "I want to build an e-commerce app",
		SessionID: "s3",
	}); err != nil {
		t.Fatalf("Turn 1 failed: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("Turn 1 must not relay")
	}

	if _, err := svc.Turn(ctx, TurnRequest{
		Message:   "you can reach me at jane@x.com",
		SessionID: "s3",
	}); err != nil {
		t.Fatalf("Turn 2 failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("Expected relay on turn 2, got %d", len(notifier.sent))
	}
	if notifier.sent[0].UserInfo.ProjectType != "E-commerce" {
		t.Errorf("Expected stored project type in payload, got %q", notifier.sent[0].UserInfo.ProjectType)
	}
}

func TestTurnFormSubmissionAlwaysRelays(t *testing.T) {
	t.Parallel()

	model := &stubLLM{reply: "ok"}
	notifier := &stubNotifier{}
	svc, _ := newTestService(model, notifier)
	ctx := context.Background()

	// First notification via chat path.
	if _, err := svc.Turn(ctx, TurnRequest{
		Message:   "email me at a@b.com",
		SessionID: "s4",
	}); err != nil {
		t.Fatalf("Turn failed: %v", err)
	}

	// Form submission must fire again despite NotificationSent.
	if _, err := svc.Turn(ctx, TurnRequest{
		Message:          "submitting my details",
		SessionID:        "s4",
		IsFormSubmission: true,
	}); err != nil {
		t.Fatalf("Form turn failed: %v", err)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("Expected two relays, got %d", len(notifier.sent))
	}
	if notifier.sent[1].MessageType != notify.TypeForm {
		t.Errorf("Expected form relay, got %q", notifier.sent[1].MessageType)
	}
	if !strings.Contains(model.lastSystem, "submitted their contact information") {
		t.Errorf("Expected form guidance prompt, got %q", model.lastSystem)
	}
}

func TestTurnRelayFailureLeavesGateOpen(t *testing.T) {
	t.Parallel()

	model := &stubLLM{reply: "ok"}
	notifier := &stubNotifier{err: errors.New("webhook down")}
	svc, store := newTestService(model, notifier)
	ctx := context.Background()

	result, err := svc.Turn(ctx, TurnRequest{
		Message:   "my email is retry@example.com",
		SessionID: "s5",
	})
	if err != nil {
		t.Fatalf("Turn should survive relay failure: %v", err)
	}
	if result.Session.NotificationSent {
		t.Error("NotificationSent must only be set after a successful relay")
	}

	sess, _ := store.Get(ctx, "s5")
	if sess.NotificationSent {
		t.Error("Persisted session must keep the gate open")
	}

	// Webhook recovers; the next turn with an email fires.
	notifier.err = nil
	if _, err := svc.Turn(ctx, TurnRequest{
		Message:   "still retry@example.com",
		SessionID: "s5",
	}); err != nil {
		t.Fatalf("Retry turn failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("Expected relay after recovery, got %d", len(notifier.sent))
	}
}

func TestTurnCompletionFailureReturnsFallback(t *testing.T) {
	t.Parallel()

	model := &stubLLM{err: errors.New("provider timeout")}
	notifier := &stubNotifier{}
	svc, store := newTestService(model, notifier)

	result, err := svc.Turn(context.Background(), TurnRequest{
		Message:   "hello there, my email is f@b.co",
		SessionID: "s6",
	})
	if err == nil {
		t.Fatal("Expected error from failing provider")
	}
	if result == nil || result.Reply != DefaultFallbackReply {
		t.Fatalf("Expected fallback reply, got %+v", result)
	}

	// The relay and session update still happened before the completion.
	if len(notifier.sent) != 1 {
		t.Errorf("Expected relay despite completion failure, got %d", len(notifier.sent))
	}
	sess, _ := store.Get(context.Background(), "s6")
	if sess == nil || !sess.NotificationSent {
		t.Errorf("Expected notified session persisted, got %+v", sess)
	}
}

func TestRawJSONBypassesSessionAndRelay(t *testing.T) {
	t.Parallel()

	model := &stubLLM{jsonReply: `{"ideas":[]}`}
	notifier := &stubNotifier{}
	svc, store := newTestService(model, notifier)

	reply, err := svc.RawJSON(context.Background(), "generate project ideas for my app")
	if err != nil {
		t.Fatalf("RawJSON failed: %v", err)
	}
	if reply != `{"ideas":[]}` {
		t.Errorf("Unexpected reply: %q", reply)
	}
	if model.jsonCalls != 1 || model.calls != 0 {
		t.Errorf("Expected exactly one JSON call, got json=%d plain=%d", model.jsonCalls, model.calls)
	}
	if store.Len() != 0 {
		t.Errorf("Expected session store untouched, got %d sessions", store.Len())
	}
	if len(notifier.sent) != 0 {
		t.Errorf("Expected no relay, got %d", len(notifier.sent))
	}
}

func TestTurnUnconfiguredProvider(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	svc := NewService(session.NewMemory(), llm.Unconfigured{}, notifier, Config{})

	result, err := svc.Turn(context.Background(), TurnRequest{Message: "hi", SessionID: "s7"})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
	if result == nil || result.Reply != DefaultFallbackReply {
		t.Fatalf("Expected fallback result, got %+v", result)
	}
}
