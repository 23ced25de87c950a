// Package conclusion collapses a finished debate transcript into the
// structured synthesis document. Generation is one-shot: the entire
// transcript goes to a single designated backend, the response is
// accumulated rather than streamed to the caller, and the result is
// parsed as JSON with a graceful degradation path for unparseable
// output.
package conclusion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/collab-arena/arena/internal/config"
	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/errors"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/logging"
	"github.com/collab-arena/arena/internal/prompt"
	"github.com/collab-arena/arena/internal/roster"
)

// unparsedNotice fills the profitability field of a degraded
// conclusion, pointing readers at the raw text in the summary.
const unparsedNotice = "The model response could not be parsed as structured JSON. The full raw text is in the strategy summary."

// Generator produces conclusions from transcripts.
type Generator struct {
	factory   llm.Factory
	log       *logging.Logger
	maxTokens int
}

// New builds a Generator using the configured conclusion token budget.
func New(cfg *config.Config, factory llm.Factory, log *logging.Logger) *Generator {
	return &Generator{
		factory:   factory,
		log:       log,
		maxTokens: cfg.Debate.ConclusionMaxTokens,
	}
}

// Generate synthesizes a conclusion from the full debate history. The
// history must contain at least one non-empty agent message; callers
// with an empty debate skip conclusion generation entirely.
//
// Backend and transport failures return an error. A response that
// arrives but cannot be parsed does not: it degrades to a conclusion
// carrying the raw text, so an invoked generation always yields a
// displayable result.
func (g *Generator) Generate(ctx context.Context, history []debate.Message) (*debate.Conclusion, error) {
	if !hasAgentContent(history) {
		return nil, errors.ErrEmptyDebate
	}

	backend, ok := roster.FindBackend(roster.ConclusionBackendID)
	if !ok {
		return nil, errors.New("conclusion: synthesis backend missing from roster")
	}

	streamer, err := g.factory(backend)
	if err != nil {
		return nil, err
	}

	messages := prompt.BuildConclusionMessages(history)

	var sb strings.Builder
	onDelta := func(delta string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sb.WriteString(delta)
		return nil
	}

	g.log.Info("generating conclusion", "history_len", len(history), "backend", backend.ID)

	if err := streamer.Stream(ctx, messages, g.maxTokens, onDelta); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(sb.String())
	if raw == "" {
		return nil, errors.ErrEmptyResponse
	}

	return Parse(raw, g.log), nil
}

// Parse interprets raw model output as a conclusion. Reasoning markup
// and markdown code fences are stripped before JSON decoding. Output
// that still fails to parse degrades to a conclusion whose summary is
// the raw text and whose structured fields are empty.
func Parse(raw string, log *logging.Logger) *debate.Conclusion {
	cleaned := prompt.StripReasoning(raw)
	cleaned = stripCodeFences(cleaned)

	var c debate.Conclusion
	if err := json.Unmarshal([]byte(cleaned), &c); err == nil && c.StrategySummary != "" {
		normalize(&c)
		return &c
	} else if err != nil {
		log.Warn("conclusion parse failed, degrading to raw text", "error", err.Error())
	}

	return &debate.Conclusion{
		StrategySummary:     raw,
		ProfitabilityModel:  unparsedNotice,
		RiskAssessment:      []debate.RiskItem{},
		Constraints:         []string{},
		ImplementationSteps: []string{},
		OpenQuestions:       []string{},
	}
}

// stripCodeFences unwraps a response the model wrapped in a markdown
// code fence despite the JSON-only instruction. Only a fence spanning
// the whole payload is removed.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line, including any language tag.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return s
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// normalize replaces nil slices with empty ones so the JSON rendering
// of a valid conclusion never contains null arrays.
func normalize(c *debate.Conclusion) {
	if c.RiskAssessment == nil {
		c.RiskAssessment = []debate.RiskItem{}
	}
	if c.Constraints == nil {
		c.Constraints = []string{}
	}
	if c.ImplementationSteps == nil {
		c.ImplementationSteps = []string{}
	}
	if c.OpenQuestions == nil {
		c.OpenQuestions = []string{}
	}
}

// hasAgentContent reports whether any non-user message has non-empty
// content.
func hasAgentContent(history []debate.Message) bool {
	for _, m := range history {
		if m.Agent != debate.UserAgent && strings.TrimSpace(m.Content) != "" {
			return true
		}
	}
	return false
}
