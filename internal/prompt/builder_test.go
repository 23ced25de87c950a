package prompt

import (
	"strings"
	"testing"

	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/roster"
)

var testRole = roster.Role{Name: "critic", Directive: "You are the DEVIL'S ADVOCATE."}

var testAgent = debate.AgentID{Role: "critic", Backend: "perplexity"}

func TestSystemPromptComposition(t *testing.T) {
	b := &Builder{}

	got := b.SystemPrompt(testRole, debate.ModeConservative, 1)

	for _, part := range []string{
		"DEVIL'S ADVOCATE",
		"do NOT repeat",
		"CONSERVATIVE",
		"EXPLORATION",
		"At most 2-3 paragraphs",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("system prompt missing %q", part)
		}
	}
}

func TestSystemPromptPhases(t *testing.T) {
	b := &Builder{}

	tests := []struct {
		round int
		want  string
	}{
		{1, "EXPLORATION"},
		{2, "DEBATE"},
		{3, "CONVERGENCE"},
		{7, "CONVERGENCE"},
	}
	for _, tt := range tests {
		got := b.SystemPrompt(testRole, debate.ModeBalanced, tt.round)
		if !strings.Contains(got, tt.want) {
			t.Errorf("round %d prompt missing %q", tt.round, tt.want)
		}
	}
}

func TestFoldHistoryAlternation(t *testing.T) {
	history := []debate.Message{
		msg(debate.UserAgent, "the proposal"),
		msg("architect:perplexity", "design first"),
		msg("economist:perplexity", "costs first"),
		msg("critic:perplexity", "my own earlier point"),
		msg("architect:perplexity", "another design note"),
	}

	folded := FoldHistory(history, testAgent)

	// No two consecutive entries share a delivered role.
	for i := 1; i < len(folded); i++ {
		if folded[i].Role == folded[i-1].Role {
			t.Errorf("entries %d and %d both %q", i-1, i, folded[i].Role)
		}
	}

	// user(proposal + two agents merged), assistant(own point),
	// user(another agent).
	if len(folded) != 3 {
		t.Fatalf("folded length = %d, want 3: %+v", len(folded), folded)
	}
	if folded[0].Role != llm.RoleUser {
		t.Errorf("first role = %q, want user", folded[0].Role)
	}
	if folded[1].Role != llm.RoleAssistant || folded[1].Content != "my own earlier point" {
		t.Errorf("own message not delivered as assistant: %+v", folded[1])
	}

	// Merged same-role content is joined by a blank line, with other
	// agents prefixed by their label.
	if !strings.Contains(folded[0].Content, "the proposal\n\n[architect (Perplexity)]: design first") {
		t.Errorf("merged user content = %q", folded[0].Content)
	}
	if !strings.Contains(folded[0].Content, "[economist (Perplexity)]: costs first") {
		t.Errorf("merged user content missing second agent: %q", folded[0].Content)
	}
}

func TestFoldHistoryOwnMessagesMerged(t *testing.T) {
	history := []debate.Message{
		msg("critic:perplexity", "point one"),
		msg("critic:perplexity", "point two"),
	}

	folded := FoldHistory(history, testAgent)
	if len(folded) != 1 {
		t.Fatalf("folded length = %d, want 1", len(folded))
	}
	if folded[0].Role != llm.RoleAssistant {
		t.Errorf("role = %q, want assistant", folded[0].Role)
	}
	if folded[0].Content != "point one\n\npoint two" {
		t.Errorf("content = %q, want merged with blank line", folded[0].Content)
	}
}

func TestBuildShortHistorySkipsContextExchange(t *testing.T) {
	b := &Builder{}
	history := []debate.Message{
		msg(debate.UserAgent, "the proposal"),
		msg("architect:perplexity", "design first"),
	}

	messages := b.Build(history, testRole, testAgent, debate.ModeBalanced, 1)

	if messages[0].Role != llm.RoleSystem {
		t.Fatalf("first message role = %q, want system", messages[0].Role)
	}
	for _, m := range messages[1:] {
		if strings.Contains(m.Content, contextHeader) {
			t.Error("short history should not carry a context block")
		}
	}
	// system + folded(user) = 2.
	if len(messages) != 2 {
		t.Errorf("message count = %d, want 2", len(messages))
	}
}

func TestBuildLongHistoryInjectsContextExchange(t *testing.T) {
	b := &Builder{}
	history := []debate.Message{
		msg(debate.UserAgent, "the proposal"),
		msg("architect:perplexity", "one"),
		msg("economist:perplexity", "two"),
		msg("visionary:perplexity", "three"),
		msg("engineer:perplexity", "four"),
		msg("strategist:perplexity", "five"),
	}

	messages := b.Build(history, testRole, testAgent, debate.ModeBalanced, 2)

	// system, context user block, synthetic ack, then the folded
	// verbatim window.
	if len(messages) < 4 {
		t.Fatalf("message count = %d, want at least 4", len(messages))
	}
	if messages[1].Role != llm.RoleUser || !strings.Contains(messages[1].Content, contextHeader) {
		t.Errorf("second message = %+v, want context block", messages[1])
	}
	if messages[2].Role != llm.RoleAssistant || messages[2].Content != contextAck {
		t.Errorf("third message = %+v, want synthetic ack", messages[2])
	}

	// The verbatim window holds only the last RecentKeep entries.
	tail := messages[3:]
	for _, m := range tail {
		if strings.Contains(m.Content, "the proposal") {
			t.Error("compressed entry leaked into the verbatim window")
		}
	}
	if !strings.Contains(tail[0].Content, "two") {
		t.Errorf("verbatim window should start at entry two: %+v", tail[0])
	}

	// Delivered roles still alternate after the ack.
	for i := 3; i < len(messages); i++ {
		if messages[i].Role == messages[i-1].Role {
			t.Errorf("messages %d and %d both %q", i-1, i, messages[i].Role)
		}
	}
}

func TestRenderTranscript(t *testing.T) {
	history := []debate.Message{
		msg(debate.UserAgent, "the proposal"),
		msg("critic:perplexity", "a critique"),
	}

	got := RenderTranscript(history)

	if !strings.HasPrefix(got, "**User proposal:**\nthe proposal") {
		t.Errorf("transcript start = %q", got)
	}
	if !strings.Contains(got, "**critic (Perplexity):**\na critique") {
		t.Errorf("transcript missing agent block: %q", got)
	}
}

func TestBuildConclusionMessages(t *testing.T) {
	history := []debate.Message{
		msg(debate.UserAgent, "the proposal"),
		msg("critic:perplexity", "a critique"),
	}

	messages := BuildConclusionMessages(history)
	if len(messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(messages))
	}
	if messages[0].Role != llm.RoleSystem {
		t.Errorf("first role = %q, want system", messages[0].Role)
	}
	if messages[1].Role != llm.RoleUser {
		t.Errorf("second role = %q, want user", messages[1].Role)
	}
	if !strings.Contains(messages[1].Content, "**User proposal:**") {
		t.Error("user turn missing transcript")
	}
	if !strings.Contains(messages[1].Content, "strategySummary") {
		t.Error("user turn missing output schema")
	}
}
