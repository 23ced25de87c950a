package conclusion

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/collab-arena/arena/internal/config"
	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/errors"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/logging"
	"github.com/collab-arena/arena/internal/roster"
)

const validPayload = `{
	"strategySummary": "Build the thing incrementally.",
	"profitabilityModel": "Subscription revenue.",
	"riskAssessment": [{"risk": "scope creep", "severity": "medium", "mitigation": "fixed milestones"}],
	"constraints": ["two engineers"],
	"implementationSteps": ["step one", "step two"],
	"openQuestions": ["pricing?"]
}`

func TestParseValidJSON(t *testing.T) {
	c := Parse(validPayload, logging.NopLogger())

	if c.StrategySummary != "Build the thing incrementally." {
		t.Errorf("strategySummary = %q", c.StrategySummary)
	}
	if len(c.RiskAssessment) != 1 || c.RiskAssessment[0].Severity != debate.SeverityMedium {
		t.Errorf("riskAssessment = %+v", c.RiskAssessment)
	}
	if len(c.ImplementationSteps) != 2 {
		t.Errorf("implementationSteps = %v", c.ImplementationSteps)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	for _, wrapped := range []string{
		"```json\n" + validPayload + "\n```",
		"```\n" + validPayload + "\n```",
	} {
		c := Parse(wrapped, logging.NopLogger())
		if c.StrategySummary != "Build the thing incrementally." {
			t.Errorf("fenced payload not parsed, summary = %q", c.StrategySummary)
		}
	}
}

func TestParseStripsReasoningMarkup(t *testing.T) {
	raw := "<think>let me work out the schema</think>\n" + validPayload
	c := Parse(raw, logging.NopLogger())
	if c.StrategySummary != "Build the thing incrementally." {
		t.Errorf("summary = %q, want parsed payload", c.StrategySummary)
	}
}

func TestParseDegradesOnInvalidJSON(t *testing.T) {
	c := Parse("not json", logging.NopLogger())

	if c.StrategySummary != "not json" {
		t.Errorf("strategySummary = %q, want raw input", c.StrategySummary)
	}
	if c.ProfitabilityModel == "" {
		t.Error("profitabilityModel should carry the parse-failure notice")
	}
	if len(c.RiskAssessment) != 0 || c.RiskAssessment == nil {
		t.Errorf("riskAssessment = %v, want empty non-nil", c.RiskAssessment)
	}
	if len(c.Constraints) != 0 || c.Constraints == nil {
		t.Errorf("constraints = %v, want empty non-nil", c.Constraints)
	}
	if len(c.ImplementationSteps) != 0 || c.ImplementationSteps == nil {
		t.Errorf("implementationSteps = %v, want empty non-nil", c.ImplementationSteps)
	}
	if len(c.OpenQuestions) != 0 || c.OpenQuestions == nil {
		t.Errorf("openQuestions = %v, want empty non-nil", c.OpenQuestions)
	}
}

func TestParseNormalizesNilSlices(t *testing.T) {
	c := Parse(`{"strategySummary": "terse", "profitabilityModel": "none"}`, logging.NopLogger())
	if c.RiskAssessment == nil || c.Constraints == nil || c.ImplementationSteps == nil || c.OpenQuestions == nil {
		t.Errorf("nil slices survived normalization: %+v", c)
	}
}

type stubStreamer struct {
	id     string
	output string
	err    error
}

func (s *stubStreamer) ID() string { return s.id }

func (s *stubStreamer) Stream(ctx context.Context, messages []llm.ChatMessage, maxTokens int, onDelta func(string) error) error {
	if s.err != nil {
		return s.err
	}
	// Deliver in two fragments to exercise accumulation.
	half := len(s.output) / 2
	if err := onDelta(s.output[:half]); err != nil {
		return err
	}
	return onDelta(s.output[half:])
}

func testHistory() []debate.Message {
	now := time.Now()
	return []debate.Message{
		{Agent: debate.UserAgent, Content: "the proposal", Round: 0, CreatedAt: now},
		{Agent: "critic:b0", Content: "a critique", Round: 1, CreatedAt: now},
	}
}

func testGenerator(s llm.Streamer) *Generator {
	cfg := &config.Config{}
	cfg.Debate.ConclusionMaxTokens = 4000
	var factory llm.Factory = func(backend roster.Backend) (llm.Streamer, error) {
		return s, nil
	}
	return New(cfg, factory, logging.NopLogger())
}

func TestGenerateAccumulatesAndParses(t *testing.T) {
	g := testGenerator(&stubStreamer{output: validPayload})

	c, err := g.Generate(context.Background(), testHistory())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if c.StrategySummary != "Build the thing incrementally." {
		t.Errorf("strategySummary = %q", c.StrategySummary)
	}
}

func TestGenerateRequiresAgentContent(t *testing.T) {
	g := testGenerator(&stubStreamer{output: validPayload})

	history := []debate.Message{
		{Agent: debate.UserAgent, Content: "the proposal", Round: 0},
		{Agent: "critic:b0", Content: "   ", Round: 1},
	}
	_, err := g.Generate(context.Background(), history)
	if !errors.Is(err, errors.ErrEmptyDebate) {
		t.Fatalf("err = %v, want ErrEmptyDebate", err)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	g := testGenerator(&stubStreamer{output: "   "})

	_, err := g.Generate(context.Background(), testHistory())
	if !errors.Is(err, errors.ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGenerateBackendError(t *testing.T) {
	g := testGenerator(&stubStreamer{err: errors.New("quota exceeded")})

	_, err := g.Generate(context.Background(), testHistory())
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want quota error", err)
	}
}
