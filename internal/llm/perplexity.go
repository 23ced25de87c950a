package llm

import (
	"context"
	"net/http"

	"github.com/collab-arena/arena/internal/config"
)

// PerplexityClient is the web-search-augmented backend. The model is
// fixed by configuration; the backend's roster identity is the literal
// "perplexity".
type PerplexityClient struct {
	cfg    config.PerplexityConfig
	client *http.Client
}

// NewPerplexityClient creates a client from config.
func NewPerplexityClient(cfg config.PerplexityConfig) *PerplexityClient {
	return &PerplexityClient{
		cfg:    cfg,
		client: newHTTPClient(),
	}
}

func (p *PerplexityClient) ID() string { return "perplexity" }

// Stream implements Streamer.
func (p *PerplexityClient) Stream(ctx context.Context, messages []ChatMessage, maxTokens int, onDelta func(string) error) error {
	payload := completionRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		Temperature: p.cfg.Temperature,
		MaxTokens:   maxTokens,
		Stream:      true,
	}
	return streamCompletion(ctx, p.client, p.cfg.BaseURL+"/chat/completions", p.cfg.APIKey, nil, payload, onDelta)
}
