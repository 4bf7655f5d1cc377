// Package llm wraps the OpenAI-compatible completion provider the assistant
// replies through. The provider is an opaque external collaborator reached
// via a request/response call bounded by a timeout.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/taherahmed/portfolio-api/internal/domain"
)

// ErrNotConfigured is returned when no provider API key is set.
var ErrNotConfigured = errors.New("completion provider not configured")

// Client produces assistant replies.
type Client interface {
	// Complete generates a short conversational reply steered by the
	// system instruction, using at most the configured history window.
	Complete(ctx context.Context, system string, history []domain.Message, message string) (string, error)

	// CompleteJSON forwards a message with an instruction to return strict
	// JSON and relays the provider's JSON back verbatim.
	CompleteJSON(ctx context.Context, message string) (string, error)
}

// Config holds provider settings.
type Config struct {
	APIKey        string
	Model         string
	Timeout       time.Duration
	Temperature   float64
	MaxTokens     int // reply ceiling for conversational turns
	JSONMaxTokens int // higher ceiling for structured JSON responses
	HistoryWindow int // messages of history sent for context
}

// DefaultConfig returns the provider defaults.
func DefaultConfig() Config {
	return Config{
		Model:         "gpt-4o-mini",
		Timeout:       10 * time.Second,
		Temperature:   0.7,
		MaxTokens:     100,
		JSONMaxTokens: 1000,
		HistoryWindow: 5,
	}
}

// Unconfigured is a Client whose calls always fail with ErrNotConfigured.
// It stands in when no API key is set so handlers can degrade per request
// instead of the server refusing to start.
type Unconfigured struct{}

// Complete always returns ErrNotConfigured.
func (Unconfigured) Complete(context.Context, string, []domain.Message, string) (string, error) {
	return "", ErrNotConfigured
}

// CompleteJSON always returns ErrNotConfigured.
func (Unconfigured) CompleteJSON(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
