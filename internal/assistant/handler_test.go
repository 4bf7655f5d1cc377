package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taherahmed/portfolio-api/internal/session"
)

func newTestServer(t *testing.T, model *stubLLM, notifier *stubNotifier, cfg HandlerConfig) (*httptest.Server, *session.MemoryStore) {
	t.Helper()

	store := session.NewMemory()
	svc := NewService(store, model, notifier, Config{})
	h := NewHandler(svc, cfg)
	t.Cleanup(h.Close)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func postChat(t *testing.T, url, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	resp, err := http.Post(url+"/api/assistant", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp, decoded
}

func TestHandleChatMissingMessage(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubLLM{reply: "hi"}, &stubNotifier{}, HandlerConfig{})

	resp, body := postChat(t, srv.URL, `{"sessionId":"abc"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("Expected error field, got %v", body)
	}
}

func TestHandleChatInvalidBody(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubLLM{reply: "hi"}, &stubNotifier{}, HandlerConfig{})

	resp, _ := postChat(t, srv.URL, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleChatSuccess(t *testing.T) {
	t.Parallel()

	model := &stubLLM{reply: "Happy to help with your website."}
	srv, store := newTestServer(t, model, &stubNotifier{}, HandlerConfig{})

	resp, body := postChat(t, srv.URL, `{"message":"I need a website","sessionId":"sess-1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var reply string
	if err := json.Unmarshal(body["reply"], &reply); err != nil || reply != model.reply {
		t.Errorf("Unexpected reply: %s", body["reply"])
	}

	var state struct {
		SessionID   string `json:"sessionId"`
		ProjectType string `json:"projectType"`
	}
	if err := json.Unmarshal(body["sessionState"], &state); err != nil {
		t.Fatalf("Missing sessionState: %v", err)
	}
	if state.SessionID != "sess-1" || state.ProjectType != "Website" {
		t.Errorf("Unexpected session state: %+v", state)
	}
	if store.Len() != 1 {
		t.Errorf("Expected one persisted session, got %d", store.Len())
	}
}

func TestHandleChatProviderFailure(t *testing.T) {
	t.Parallel()

	model := &stubLLM{err: errors.New("upstream 500")}
	srv, _ := newTestServer(t, model, &stubNotifier{}, HandlerConfig{})

	resp, body := postChat(t, srv.URL, `{"message":"hello","sessionId":"sess-2"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", resp.StatusCode)
	}

	var reply string
	if err := json.Unmarshal(body["reply"], &reply); err != nil || reply != DefaultFallbackReply {
		t.Errorf("Expected fallback reply, got %s", body["reply"])
	}
	if _, ok := body["sessionState"]; ok {
		t.Error("Error responses must not include session state")
	}
}

func TestHandleChatForceJSON(t *testing.T) {
	t.Parallel()

	model := &stubLLM{jsonReply: `{"suggestions":["a","b"]}`}
	notifier := &stubNotifier{}
	srv, store := newTestServer(t, model, notifier, HandlerConfig{})

	resp, body := postChat(t, srv.URL,
		`{"message":"suggest features, my email is x@y.com","forceJsonResponse":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var reply string
	if err := json.Unmarshal(body["reply"], &reply); err != nil || reply != model.jsonReply {
		t.Errorf("Expected verbatim JSON reply, got %s", body["reply"])
	}
	if store.Len() != 0 || len(notifier.sent) != 0 {
		t.Error("forceJsonResponse must bypass session state and relays")
	}
}

func TestHandleChatRateLimit(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubLLM{reply: "ok"}, &stubNotifier{}, HandlerConfig{
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})

	for i := 0; i < 2; i++ {
		resp, _ := postChat(t, srv.URL, `{"message":"hi","sessionId":"rl"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	resp, _ := postChat(t, srv.URL, `{"message":"hi","sessionId":"rl"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", resp.StatusCode)
	}
}

func TestHandleChatBodyTooLarge(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubLLM{reply: "ok"}, &stubNotifier{}, HandlerConfig{
		MaxRequestBody: 64,
	})

	big := `{"message":"` + strings.Repeat("a", 256) + `"}`
	resp, _ := postChat(t, srv.URL, big)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", resp.StatusCode)
	}
}
