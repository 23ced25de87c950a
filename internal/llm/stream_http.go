package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/collab-arena/arena/internal/errors"
)

// completionRequest is the OpenAI-compatible chat completion payload
// both upstream APIs accept.
type completionRequest struct {
	Model       string          `json:"model"`
	Messages    []ChatMessage   `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	Stream      bool            `json:"stream"`
	Thinking    *thinkingBudget `json:"thinking,omitempty"`
}

// thinkingBudget caps internal reasoning tokens for thinking-family
// models.
type thinkingBudget struct {
	BudgetTokens int `json:"budget_tokens"`
}

// streamChunk is one SSE data frame of a streamed completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			Reasoning        string `json:"reasoning"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"delta"`
	} `json:"choices"`
}

// newHTTPClient returns the client shared by both backend shapes. No
// overall request timeout: the stream is bounded by the caller's
// context, and a turn legitimately takes tens of seconds.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}
}

// streamCompletion POSTs a streaming chat completion and forwards each
// content fragment to onDelta. Reasoning deltas are forwarded only when
// the frame carries no content delta, so thinking models still produce
// visible output.
func streamCompletion(ctx context.Context, client *http.Client, url, apiKey string, headers map[string]string, payload completionRequest, onDelta func(string) error) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewBackendError("request failed", err).WithBackendID(payload.Model)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		bErr := errors.NewBackendError(
			fmt.Sprintf("upstream returned %s: %s", resp.Status, strings.TrimSpace(string(detail))),
			nil,
		).WithBackendID(payload.Model).WithStatus(resp.StatusCode)
		// Credential failures repeat identically on the same backend.
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			bErr.WithRetryable(false)
		}
		return bErr
	}

	scanner := bufio.NewScanner(resp.Body)
	// Single deltas can exceed the default 64K token when a model emits
	// a large fragment after buffering.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Tolerate malformed keep-alive frames from upstream proxies.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		fragment := delta.Content
		if fragment == "" {
			if delta.ReasoningContent != "" {
				fragment = delta.ReasoningContent
			} else if delta.Reasoning != "" {
				fragment = delta.Reasoning
			}
		}
		if fragment == "" {
			continue
		}

		if err := onDelta(fragment); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.NewBackendError("stream read failed", err).WithBackendID(payload.Model)
	}

	return nil
}
