package debate

import (
	"time"

	"github.com/google/uuid"
)

// Message is one utterance in the debate. Messages are created the
// moment a turn completes successfully (or by history replay on resume)
// and are never mutated afterwards.
type Message struct {
	ID        string
	SessionID string
	// Round is the 1-based cycle count. Round 0 is reserved for the
	// initiating proposal (or the replayed prior history on resume).
	Round int
	// Agent is the speaker identity: UserAgent or "role:backendId".
	Agent string
	// RoleForLLM is the delivered role when this message is sent to a
	// backend.
	RoleForLLM LLMRole
	Content    string
	CreatedAt  time.Time
}

// ReplayEntry is the client-held form of a message, replayed on resume
// and when requesting a conclusion. The client is the system of record;
// the server accepts replayed history as equally valid to history it
// generated itself.
type ReplayEntry struct {
	Agent   string `json:"agent"`
	Content string `json:"content"`
	Round   int    `json:"round"`
}

// Session is one debate run. A new session ID is minted on every
// (re)start, including resumes: a resume is a new session seeded with
// replayed history, not a reopened one.
type Session struct {
	ID        string
	Proposal  string
	Mode      Mode
	Messages  []Message
	Status    SessionStatus
	CreatedAt time.Time
}

// NewSession creates a running session for a proposal. When prior is
// non-empty the session is seeded with the replayed history; otherwise
// round 0 holds the proposal as the user's message.
func NewSession(proposal string, mode Mode, prior []ReplayEntry) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Proposal:  proposal,
		Mode:      mode,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
	}

	if len(prior) > 0 {
		for _, entry := range prior {
			s.Append(entry.Round, entry.Agent, entry.Content)
		}
		return s
	}

	s.Append(0, UserAgent, proposal)
	return s
}

// Append records a completed message. The delivered role is derived
// from the speaker: the user sentinel maps to the user role, everything
// else is an assistant turn.
func (s *Session) Append(round int, agent, content string) Message {
	role := LLMRoleAssistant
	if agent == UserAgent {
		role = LLMRoleUser
	}
	msg := Message{
		ID:         uuid.NewString(),
		SessionID:  s.ID,
		Round:      round,
		Agent:      agent,
		RoleForLLM: role,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	s.Messages = append(s.Messages, msg)
	return msg
}

// AgentTurnCount returns the number of non-user messages. On resume the
// orchestrator continues the round-robin from this count, preserving
// each role's position across a pause.
func (s *Session) AgentTurnCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Agent != UserAgent {
			n++
		}
	}
	return n
}
