package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/collab-arena/arena/internal/debate"
)

func msg(agent, content string) debate.Message {
	return debate.Message{Agent: agent, Content: content}
}

func TestBuildContextBlockThreshold(t *testing.T) {
	history := []debate.Message{
		msg(debate.UserAgent, "proposal"),
		msg("critic:perplexity", "turn 1"),
		msg("architect:perplexity", "turn 2"),
		msg("critic:perplexity", "turn 3"),
	}

	// At or below the verbatim window nothing is compressed.
	if _, ok := BuildContextBlock(history, 4); ok {
		t.Error("history of 4 with keep 4 should not compress")
	}

	history = append(history, msg("architect:perplexity", "turn 4"))
	block, ok := BuildContextBlock(history, 4)
	if !ok {
		t.Fatal("history of 5 with keep 4 should compress")
	}

	// Exactly len(history)-keep summary lines, between header and footer.
	lines := strings.Split(strings.TrimSpace(block), "\n")
	var summary []string
	for _, line := range lines {
		if strings.HasPrefix(line, "• ") {
			summary = append(summary, line)
		}
	}
	if len(summary) != 1 {
		t.Fatalf("summary lines = %d, want 1:\n%s", len(summary), block)
	}
	if !strings.Contains(summary[0], "User: proposal") {
		t.Errorf("oldest entry not summarized: %q", summary[0])
	}
}

func TestBuildContextBlockLineCount(t *testing.T) {
	var history []debate.Message
	history = append(history, msg(debate.UserAgent, "proposal"))
	for i := 0; i < 9; i++ {
		history = append(history, msg("critic:perplexity", "some contribution"))
	}

	block, ok := BuildContextBlock(history, 4)
	if !ok {
		t.Fatal("expected compression")
	}
	if got := strings.Count(block, "• "); got != 6 {
		t.Errorf("summary lines = %d, want len(history)-keep = 6", got)
	}
}

func TestBuildContextBlockBoundsSnippets(t *testing.T) {
	long := strings.Repeat("palabra ", 100)
	history := []debate.Message{
		msg(debate.UserAgent, long),
		msg("critic:perplexity", "a"),
		msg("critic:perplexity", "b"),
		msg("critic:perplexity", "c"),
		msg("critic:perplexity", "d"),
	}

	block, ok := BuildContextBlock(history, 4)
	if !ok {
		t.Fatal("expected compression")
	}

	for _, line := range strings.Split(block, "\n") {
		if !strings.HasPrefix(line, "• ") {
			continue
		}
		_, content, _ := strings.Cut(line, ": ")
		if n := utf8.RuneCountInString(content); n > snippetLimit+1 {
			t.Errorf("snippet length = %d runes, want <= %d plus ellipsis", n, snippetLimit)
		}
		if !strings.HasSuffix(content, "…") {
			t.Errorf("truncated snippet missing ellipsis: %q", content)
		}
	}
}

func TestSnippetCollapsesWhitespace(t *testing.T) {
	got := snippet("line one\n\nline   two\ttabbed")
	if got != "line one line two tabbed" {
		t.Errorf("snippet = %q", got)
	}
}

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"closed block removed",
			"<think>internal chain</think>The answer.",
			"The answer.",
		},
		{
			"multiline block removed",
			"<think>step 1\nstep 2\nstep 3</think>\nFinal position.",
			"Final position.",
		},
		{
			"unclosed block drops to first blank line",
			"<think>half a thought\n\nThe visible part.",
			"The visible part.",
		},
		{
			"unclosed block with no blank line drops everything",
			"<think>never closed, never paused",
			"",
		},
		{
			"no markup untouched",
			"Plain argument.",
			"Plain argument.",
		},
		{
			"text before unclosed block survives",
			"Lead-in. <think>hmm\n\nTrailing point.",
			"Lead-in. Trailing point.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripReasoning(tt.content); got != tt.want {
				t.Errorf("StripReasoning(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSpeakerLabel(t *testing.T) {
	tests := []struct {
		agent string
		want  string
	}{
		{debate.UserAgent, "User"},
		{"critic:perplexity", "critic (Perplexity)"},
		{"architect:openai/gpt-oss-120b:free", "architect (GPT-OSS)"},
		{"engineer:some/retired-model", "engineer (retired-model)"},
		{"malformed", "malformed"},
	}
	for _, tt := range tests {
		if got := SpeakerLabel(tt.agent); got != tt.want {
			t.Errorf("SpeakerLabel(%q) = %q, want %q", tt.agent, got, tt.want)
		}
	}
}
