package debate

import (
	"fmt"
	"strings"
)

// SessionStatus represents the current state of a debate session.
type SessionStatus string

const (
	// StatusRunning indicates the orchestrator loop is active.
	StatusRunning SessionStatus = "running"

	// StatusCompleted indicates the loop stopped cleanly.
	StatusCompleted SessionStatus = "completed"

	// StatusError indicates the loop ended with an unexpected failure.
	StatusError SessionStatus = "error"
)

// Mode is the risk posture applied to every agent's instructions.
type Mode string

const (
	ModeConservative Mode = "conservative"
	ModeBalanced     Mode = "balanced"
	ModeAggressive   Mode = "aggressive"
)

// ParseMode resolves a mode string, falling back to balanced for
// unknown or empty values. An invalid mode is not an error: clients may
// send stale values after an upgrade.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeConservative, ModeBalanced, ModeAggressive:
		return Mode(s)
	default:
		return ModeBalanced
	}
}

// LLMRole is the delivered role of a message when talking to a backend.
type LLMRole string

const (
	LLMRoleSystem    LLMRole = "system"
	LLMRoleUser      LLMRole = "user"
	LLMRoleAssistant LLMRole = "assistant"
)

// UserAgent is the sentinel speaker identity for the human participant.
const UserAgent = "user"

// AgentID is the pairing of one behavioral role with one backend for a
// single turn. It is recomputed per turn from the scheduler's rotation
// state and is not a persisted entity.
type AgentID struct {
	Role    string
	Backend string
}

// String renders the wire-format composite key "role:backendId".
func (a AgentID) String() string {
	return a.Role + ":" + a.Backend
}

// IsZero reports whether the identity is unset.
func (a AgentID) IsZero() bool {
	return a.Role == "" && a.Backend == ""
}

// ParseAgentID splits a wire-format "role:backendId" composite. The
// backend portion may contain further colons, so only the first
// separator is significant.
func ParseAgentID(s string) (AgentID, error) {
	role, backend, ok := strings.Cut(s, ":")
	if !ok || role == "" || backend == "" {
		return AgentID{}, fmt.Errorf("debate: malformed agent id %q", s)
	}
	return AgentID{Role: role, Backend: backend}, nil
}
