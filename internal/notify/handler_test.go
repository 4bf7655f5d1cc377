package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func postNotify(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleNotify(w, req)
	return w
}

func TestHandleNotifyRequiresContentOrUserInfo(t *testing.T) {
	t.Parallel()

	h := NewHandler(NewService("http://example.invalid/hook", time.Second))
	w := postNotify(t, h, `{"messageType":"chat"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHandleNotifyUnconfiguredWebhook(t *testing.T) {
	t.Parallel()

	h := NewHandler(NewService("", time.Second))
	w := postNotify(t, h, `{"content":"hello"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["error"] == "" {
		t.Error("Expected explanatory error message")
	}
}

func TestHandleNotifyForwardsToWebhook(t *testing.T) {
	t.Parallel()

	var received WebhookMessage
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Upstream decode failed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	h := NewHandler(NewService(upstream.URL, time.Second))
	w := postNotify(t, h, `{"content":"hi","userInfo":{"name":"A","email":"a@b.com"},"messageType":"form"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(received.Embeds) != 1 {
		t.Fatalf("Expected one embed forwarded, got %d", len(received.Embeds))
	}
	if !hasField(received.Embeds[0], "Name") || !hasField(received.Embeds[0], "📧 Email") {
		t.Errorf("Expected Name and Email entries, got %v", fieldNames(received.Embeds[0]))
	}
}

func TestHandleNotifySurfacesUpstreamFailure(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer upstream.Close()

	h := NewHandler(NewService(upstream.URL, time.Second))
	w := postNotify(t, h, `{"content":"hi"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 on upstream failure, got %d", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["details"] == "" {
		t.Error("Expected error detail from upstream")
	}
}
