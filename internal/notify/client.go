package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("notification webhook not configured")

const defaultTimeout = 5 * time.Second

// Service delivers relay payloads to the configured Discord webhook.
// Deliveries are bounded by the client timeout so a slow webhook cannot
// stall a conversational turn beyond that bound.
type Service struct {
	webhookURL string
	client     *http.Client
}

// NewService creates a relay service. An empty webhookURL produces a
// service whose sends fail with ErrNotConfigured, letting the server run
// in a degraded mode.
func NewService(webhookURL string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a webhook URL is set.
func (s *Service) Configured() bool {
	return s.webhookURL != ""
}

// Send formats the payload and posts it to the webhook. A non-2xx response
// is an error.
func (s *Service) Send(ctx context.Context, p Payload) error {
	if s.webhookURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(BuildMessage(p))
	if err != nil {
		return fmt.Errorf("encode webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %s", resp.Status)
	}
	return nil
}
