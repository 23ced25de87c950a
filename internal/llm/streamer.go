// Package llm wraps each generation backend behind one capability:
// given a message sequence and a token budget, produce a lazy sequence
// of text fragments.
//
// Two concrete shapes exist: a web-search-augmented client with a fixed
// model, and a generic chat-completion client parameterized by model
// ID. Both speak the same OpenAI-compatible streaming protocol and are
// interchangeable from the scheduler's point of view.
//
// Failure modes surface to the caller as either an error return
// (connection, auth, quota) or a stream that yields zero fragments; the
// scheduler treats both as "this backend failed this attempt" and
// rotates.
package llm

import (
	"context"
	"fmt"

	"github.com/collab-arena/arena/internal/config"
	"github.com/collab-arena/arena/internal/roster"
)

// Chat message roles as delivered to backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a backend-ready message sequence.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Streamer is the uniform generation contract. Stream sends the message
// sequence and invokes onDelta once per text fragment, in arrival
// order. Exactly one call is in flight per turn; the caller consumes
// each fragment before the next is requested.
//
// Stream returns nil when the upstream stream completed, even if it
// yielded zero fragments; detecting the empty-response case is the
// caller's concern. A non-nil error from onDelta aborts the stream and
// is returned unchanged.
type Streamer interface {
	// ID returns the backend identifier used in agent IDs.
	ID() string

	// Stream generates a response for the message sequence within the
	// given token budget, delivering fragments through onDelta.
	Stream(ctx context.Context, messages []ChatMessage, maxTokens int, onDelta func(string) error) error
}

// Factory builds a Streamer for one roster backend. The orchestrator
// resolves backends through a Factory so tests can substitute fakes.
type Factory func(backend roster.Backend) (Streamer, error)

// NewFactory returns the production Factory: search-type backends map
// to the Perplexity client, generic ones to an OpenRouter client bound
// to the backend's model ID.
func NewFactory(cfg *config.Config) Factory {
	return func(backend roster.Backend) (Streamer, error) {
		switch backend.Type {
		case roster.TypeSearch:
			return NewPerplexityClient(cfg.Perplexity), nil
		case roster.TypeGeneric:
			return NewOpenRouterClient(cfg.OpenRouter, backend.ID), nil
		default:
			return nil, fmt.Errorf("llm: unknown backend type %q", backend.Type)
		}
	}
}
