package prompt

import (
	"regexp"
	"strings"

	"github.com/collab-arena/arena/internal/debate"
)

// DefaultRecentKeep is the number of trailing history entries passed to
// a backend verbatim. Everything older is compressed.
const DefaultRecentKeep = 4

// snippetLimit is the maximum length of one compressed summary line's
// content, before the ellipsis marker.
const snippetLimit = 220

const (
	contextHeader = "Summary of the debate so far (older turns, compressed):"
	contextFooter = "The most recent turns follow verbatim."

	// contextAck is the synthetic assistant acknowledgment paired with
	// the context block, so backends expecting a real dialogue never
	// see two consecutive user-role messages.
	contextAck = "Understood. I have reviewed the debate so far."
)

// thinkBlockRe matches a closed reasoning wrapper, including multiline
// content.
var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// blankLineRe finds the first blank line, used to drop the reasoning
// preamble left by an unclosed wrapper.
var blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

// BuildContextBlock converts every message older than the last keep
// entries into one synthetic summary block. It returns ok=false when
// the history fits in the verbatim window and nothing needs
// compressing.
func BuildContextBlock(history []debate.Message, keep int) (string, bool) {
	if keep <= 0 {
		keep = DefaultRecentKeep
	}
	if len(history) <= keep {
		return "", false
	}

	old := history[:len(history)-keep]
	var sb strings.Builder
	sb.WriteString(contextHeader)
	sb.WriteString("\n")

	for _, msg := range old {
		sb.WriteString("• ")
		sb.WriteString(SpeakerLabel(msg.Agent))
		sb.WriteString(": ")
		sb.WriteString(snippet(msg.Content))
		sb.WriteString("\n")
	}

	sb.WriteString(contextFooter)
	return sb.String(), true
}

// snippet reduces one message to a single bounded line: reasoning
// markup stripped, newlines collapsed, truncated at snippetLimit runes.
func snippet(content string) string {
	s := StripReasoning(content)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "…"
	}
	return s
}

// StripReasoning removes internal reasoning markup from model output:
// closed <think>...</think> wrappers, and for an unclosed wrapper the
// filler preamble up to the first blank line after it (or everything,
// when no blank line follows).
func StripReasoning(content string) string {
	s := thinkBlockRe.ReplaceAllString(content, "")

	if idx := strings.Index(s, "<think>"); idx >= 0 {
		rest := s[idx:]
		if loc := blankLineRe.FindStringIndex(rest); loc != nil {
			s = s[:idx] + rest[loc[1]:]
		} else {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}

// SpeakerLabel renders a speaker identity for prompts and summaries:
// "User" for the human participant, "role (Backend)" for agents.
func SpeakerLabel(agent string) string {
	if agent == debate.UserAgent {
		return "User"
	}
	id, err := debate.ParseAgentID(agent)
	if err != nil {
		return agent
	}
	return id.Role + " (" + backendLabel(id.Backend) + ")"
}
