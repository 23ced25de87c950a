package roster

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// BackendType distinguishes the two generation capability shapes.
type BackendType string

const (
	// TypeSearch is the web-search-augmented backend (direct API).
	TypeSearch BackendType = "search"
	// TypeGeneric is a chat-completion backend parameterized by model ID.
	TypeGeneric BackendType = "generic"
)

// Backend is one generation capability behind the uniform streaming
// contract.
type Backend struct {
	// ID is the stable identifier used in agent IDs and API calls.
	// For generic backends this is the provider model path.
	ID         string
	Label      string
	ShortLabel string
	Provider   string
	Type       BackendType
}

// backends is the canonical roster: the search backend plus fifteen
// generic models, in rotation order.
var backends = []Backend{
	{ID: "perplexity", Label: "Perplexity Sonar Reasoning Pro", ShortLabel: "Perplexity", Provider: "Perplexity", Type: TypeSearch},
	{ID: "qwen/qwen3-235b-a22b-thinking-2507", Label: "Qwen3 235B Thinking", ShortLabel: "Qwen3 235B", Provider: "Qwen", Type: TypeGeneric},
	{ID: "openai/gpt-oss-120b:free", Label: "GPT-OSS 120B", ShortLabel: "GPT-OSS", Provider: "OpenAI", Type: TypeGeneric},
	{ID: "meta-llama/llama-3.3-70b-instruct:free", Label: "Llama 3.3 70B Instruct", ShortLabel: "Llama 70B", Provider: "Meta", Type: TypeGeneric},
	{ID: "google/gemma-3-27b-it:free", Label: "Gemma 3 27B", ShortLabel: "Gemma 27B", Provider: "Google", Type: TypeGeneric},
	{ID: "qwen/qwen3-vl-235b-a22b-thinking", Label: "Qwen3 VL 235B Thinking", ShortLabel: "Qwen3 VL", Provider: "Qwen", Type: TypeGeneric},
	{ID: "nvidia/nemotron-3-nano-30b-a3b:free", Label: "Nemotron 3 Nano 30B", ShortLabel: "Nemotron 30B", Provider: "NVIDIA", Type: TypeGeneric},
	{ID: "arcee-ai/trinity-mini:free", Label: "Trinity Mini 26B", ShortLabel: "Trinity Mini", Provider: "Arcee", Type: TypeGeneric},
	{ID: "nvidia/nemotron-nano-12b-v2-vl:free", Label: "Nemotron Nano 12B VL", ShortLabel: "Nemotron 12B", Provider: "NVIDIA", Type: TypeGeneric},
	{ID: "stepfun/step-3.5-flash:free", Label: "Step 3.5 Flash", ShortLabel: "Step 3.5", Provider: "StepFun", Type: TypeGeneric},
	{ID: "z-ai/glm-4.5-air:free", Label: "GLM 4.5 Air", ShortLabel: "GLM 4.5", Provider: "Z.ai", Type: TypeGeneric},
	{ID: "upstage/solar-pro-3:free", Label: "Solar Pro 3", ShortLabel: "Solar Pro 3", Provider: "Upstage", Type: TypeGeneric},
	{ID: "nvidia/nemotron-nano-9b-v2:free", Label: "Nemotron Nano 9B V2", ShortLabel: "Nemotron 9B", Provider: "NVIDIA", Type: TypeGeneric},
	{ID: "openai/gpt-oss-20b:free", Label: "GPT-OSS 20B", ShortLabel: "GPT-OSS 20B", Provider: "OpenAI", Type: TypeGeneric},
	{ID: "arcee-ai/trinity-large-preview:free", Label: "Trinity Large Preview", ShortLabel: "Trinity", Provider: "Arcee", Type: TypeGeneric},
	{ID: "liquid/lfm-2.5-1.2b-thinking:free", Label: "LFM 2.5 1.2B Thinking", ShortLabel: "Liquid 1.2B", Provider: "Liquid", Type: TypeGeneric},
}

// ConclusionBackendID is the generic backend used to synthesize the
// final conclusion document.
const ConclusionBackendID = "openai/gpt-oss-120b:free"

// Backends returns the backend roster in rotation order. The returned
// slice is a copy; the roster itself is immutable.
func Backends() []Backend {
	out := make([]Backend, len(backends))
	copy(out, backends)
	return out
}

// FindBackend looks up a backend by ID.
func FindBackend(id string) (Backend, bool) {
	for _, b := range backends {
		if b.ID == id {
			return b, true
		}
	}
	return Backend{}, false
}

// BackendLabel returns the short display label for a backend ID. For
// unknown IDs the last path segment of the ID is used so replayed
// histories from older rosters still render something readable.
func BackendLabel(id string) string {
	if b, ok := FindBackend(id); ok {
		return b.ShortLabel
	}
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// FilterBackends removes backends whose ID matches any of the given
// glob patterns. An empty pattern list returns the full roster. At
// least one backend must survive; an error is returned otherwise so a
// misconfigured filter fails at startup rather than mid-debate.
func FilterBackends(patterns []string) ([]Backend, error) {
	if len(patterns) == 0 {
		return Backends(), nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("roster: invalid backend filter %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	var out []Backend
	for _, b := range backends {
		disabled := false
		for _, g := range globs {
			if g.Match(b.ID) {
				disabled = true
				break
			}
		}
		if !disabled {
			out = append(out, b)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("roster: backend filters %v disable every backend", patterns)
	}
	return out, nil
}
