package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/collab-arena/arena/internal/config"
)

// OpenRouterClient is the generic chat-completion backend, bound to one
// model ID from the roster.
type OpenRouterClient struct {
	cfg    config.OpenRouterConfig
	model  string
	client *http.Client
}

// NewOpenRouterClient creates a client for one model.
func NewOpenRouterClient(cfg config.OpenRouterConfig, model string) *OpenRouterClient {
	return &OpenRouterClient{
		cfg:    cfg,
		model:  model,
		client: newHTTPClient(),
	}
}

func (o *OpenRouterClient) ID() string { return o.model }

// Stream implements Streamer.
func (o *OpenRouterClient) Stream(ctx context.Context, messages []ChatMessage, maxTokens int, onDelta func(string) error) error {
	payload := completionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: o.cfg.Temperature,
		MaxTokens:   maxTokens,
		Stream:      true,
	}
	if isThinkingModel(o.model) {
		payload.Thinking = &thinkingBudget{BudgetTokens: maxTokens * 40 / 100}
	}

	headers := map[string]string{
		"HTTP-Referer": o.cfg.SiteURL,
		"X-Title":      o.cfg.SiteName,
	}
	return streamCompletion(ctx, o.client, o.cfg.BaseURL+"/chat/completions", o.cfg.APIKey, headers, payload, onDelta)
}

// isThinkingModel reports whether a model belongs to a reasoning family
// that accepts an explicit thinking budget. Matching is by ID substring;
// upstream exposes no capability flag.
func isThinkingModel(model string) bool {
	for _, marker := range []string{
		"thinking",
		":thinking",
		"gemini-2.5",
		"gemini-3",
		"deepseek-r1",
		"o3",
		"step-3.5",
		"glm-4.5",
		"gpt-oss",
	} {
		if strings.Contains(model, marker) {
			return true
		}
	}
	return false
}
