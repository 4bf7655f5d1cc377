package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/taherahmed/portfolio-api/internal/domain"
)

// jsonSystemPrompt forces strict machine-readable output for the idea
// generator path.
const jsonSystemPrompt = "You are a helpful AI assistant that always responds with valid, parseable JSON. " +
	"Never include explanations, markdown formatting, or any text outside the JSON structure."

// OpenAIClient implements Client on top of langchaingo's OpenAI bindings.
type OpenAIClient struct {
	llm *openai.LLM
	cfg Config
}

// NewOpenAI creates a completion client. Zero-valued Config fields fall back
// to DefaultConfig.
func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.JSONMaxTokens <= 0 {
		cfg.JSONMaxTokens = def.JSONMaxTokens
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = def.HistoryWindow
	}

	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return &OpenAIClient{llm: model, cfg: cfg}, nil
}

// Complete generates a conversational reply. The call is bounded by the
// configured timeout; a timeout or provider error is returned to the caller
// so it can substitute a fallback reply.
func (c *OpenAIClient) Complete(ctx context.Context, system string, history []domain.Message, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	recent := history
	if len(recent) > c.cfg.HistoryWindow {
		recent = recent[len(recent)-c.cfg.HistoryWindow:]
	}

	msgs := make([]llms.MessageContent, 0, len(recent)+2)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, system))
	for _, m := range recent {
		msgs = append(msgs, llms.TextParts(messageType(m.Role), m.Content))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := c.llm.GenerateContent(ctx, msgs,
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithMaxTokens(c.cfg.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("completion call: %w", err)
	}
	return firstChoice(resp)
}

// CompleteJSON forwards the message alone with the strict-JSON instruction.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, jsonSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, message),
	}

	resp, err := c.llm.GenerateContent(ctx, msgs,
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithMaxTokens(c.cfg.JSONMaxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("json completion call: %w", err)
	}
	return firstChoice(resp)
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func messageType(role domain.Role) llms.ChatMessageType {
	switch role {
	case domain.RoleAssistant:
		return llms.ChatMessageTypeAI
	case domain.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}
