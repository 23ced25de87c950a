package prompt

import (
	"strings"

	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/roster"
)

// noRepeatRule is appended to every role directive.
const noRepeatRule = "\n\nCRITICAL RULE: do NOT repeat points other agents already made. Read the history and contribute something NEW or DIFFERENT. If you have nothing new, ask a question nobody has asked or propose a concrete alternative. If another agent already said the same thing, MOVE ON to another topic."

// brevityRule closes every system prompt.
const brevityRule = "\n\nAt most 2-3 paragraphs. No pleasantries. Same language as the conversation."

// modeModifiers maps each risk posture to its system-prompt clause.
var modeModifiers = map[debate.Mode]string{
	debate.ModeConservative: "\n\nApproach: CONSERVATIVE. Prioritize safety over speed.",
	debate.ModeBalanced:     "\n\nApproach: BALANCED. Seek the optimal risk/reward.",
	debate.ModeAggressive:   "\n\nApproach: AGGRESSIVE. Prioritize speed and boldness.",
}

// phaseInstruction returns the per-round debate phase directive.
// Round 1 explores, round 2 debates, round 3 onward converges.
func phaseInstruction(round int) string {
	switch {
	case round <= 1:
		return "\n\nPhase: EXPLORATION. Present a unique angle on the proposal. Do not restate it."
	case round == 2:
		return "\n\nPhase: DEBATE. Challenge the arguments already on the table and demand evidence."
	default:
		return "\n\nPhase: CONVERGENCE. Stop circling: propose something actionable or name the blocker."
	}
}

// backendLabel is indirected for tests.
var backendLabel = roster.BackendLabel

// Builder assembles turn prompts.
type Builder struct {
	// RecentKeep is the verbatim window size; zero means
	// DefaultRecentKeep.
	RecentKeep int
}

// SystemPrompt composes the instruction set for one agent's turn: role
// directive, anti-repetition rule, mode modifier, phase-of-debate
// instruction, and the brevity rule.
func (b *Builder) SystemPrompt(role roster.Role, mode debate.Mode, round int) string {
	return role.Directive + noRepeatRule + modeModifiers[mode] + phaseInstruction(round) + brevityRule
}

// Build produces the backend-ready message sequence for one turn: a
// system message, optionally the compressed-context exchange, then the
// last RecentKeep history entries folded into alternating
// user/assistant turns.
func (b *Builder) Build(history []debate.Message, role roster.Role, agent debate.AgentID, mode debate.Mode, round int) []llm.ChatMessage {
	keep := b.RecentKeep
	if keep <= 0 {
		keep = DefaultRecentKeep
	}

	messages := []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: b.SystemPrompt(role, mode, round)},
	}

	if block, ok := BuildContextBlock(history, keep); ok {
		messages = append(messages,
			llm.ChatMessage{Role: llm.RoleUser, Content: block},
			llm.ChatMessage{Role: llm.RoleAssistant, Content: contextAck},
		)
	}

	recent := history
	if len(recent) > keep {
		recent = recent[len(recent)-keep:]
	}
	return append(messages, FoldHistory(recent, agent)...)
}

// FoldHistory converts history entries into strictly alternating
// user/assistant chat turns for the given acting agent. The agent's own
// prior messages become assistant turns; the user's proposal and other
// agents' messages (prefixed with a "[label]:" tag) become user turns.
// Consecutive same-role turns are merged by concatenation, separated by
// a blank line.
func FoldHistory(history []debate.Message, agent debate.AgentID) []llm.ChatMessage {
	self := agent.String()
	var out []llm.ChatMessage

	appendOrMerge := func(role, content string) {
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + content
			return
		}
		out = append(out, llm.ChatMessage{Role: role, Content: content})
	}

	for _, msg := range history {
		switch msg.Agent {
		case debate.UserAgent:
			appendOrMerge(llm.RoleUser, msg.Content)
		case self:
			appendOrMerge(llm.RoleAssistant, msg.Content)
		default:
			appendOrMerge(llm.RoleUser, "["+SpeakerLabel(msg.Agent)+"]: "+msg.Content)
		}
	}

	return out
}

// RenderTranscript renders the entire history uncompressed, in
// chronological order, as "**speaker:** content" blocks. Used by the
// conclusion prompt, which needs the full debate rather than a bounded
// window.
func RenderTranscript(history []debate.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		if msg.Agent == debate.UserAgent {
			sb.WriteString("**User proposal:**\n")
		} else {
			sb.WriteString("**" + SpeakerLabel(msg.Agent) + ":**\n")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}
