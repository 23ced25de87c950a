package event

import (
	"encoding/json"
	"time"

	"github.com/collab-arena/arena/internal/debate"
)

// Event kind identifiers, as they appear in the wire-format "type" tag.
const (
	TypeRoundStart   = "round_start"
	TypeMessageStart = "message_start"
	TypeToken        = "token"
	TypeMessageEnd   = "message_end"
	TypeAgentError   = "agent_error"
	TypeRoundEnd     = "round_end"
	TypeError        = "error"
	TypeDone         = "done"
)

// Event is the interface all debate stream events implement.
type Event interface {
	// EventType returns the wire-format kind tag.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// wireEvent is the single JSON shape all kinds render to. Absent fields
// are omitted rather than sent as null or zero values.
type wireEvent struct {
	Type  string `json:"type"`
	Agent string `json:"agent,omitempty"`
	Round int    `json:"round,omitempty"`
	Data  string `json:"data,omitempty"`
}

// RoundStartEvent marks the beginning of a full round-robin cycle.
type RoundStartEvent struct {
	baseEvent
	Round int
}

// NewRoundStartEvent creates a RoundStartEvent.
func NewRoundStartEvent(round int) RoundStartEvent {
	return RoundStartEvent{baseEvent: newBaseEvent(TypeRoundStart), Round: round}
}

func (e RoundStartEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeRoundStart, Round: e.Round})
}

// MessageStartEvent marks the beginning of one turn attempt by an agent.
type MessageStartEvent struct {
	baseEvent
	Agent debate.AgentID
	Round int
}

// NewMessageStartEvent creates a MessageStartEvent.
func NewMessageStartEvent(agent debate.AgentID, round int) MessageStartEvent {
	return MessageStartEvent{baseEvent: newBaseEvent(TypeMessageStart), Agent: agent, Round: round}
}

func (e MessageStartEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeMessageStart, Agent: e.Agent.String(), Round: e.Round})
}

// TokenEvent carries one streamed text fragment of the active attempt.
type TokenEvent struct {
	baseEvent
	Agent debate.AgentID
	Round int
	Data  string
}

// NewTokenEvent creates a TokenEvent.
func NewTokenEvent(agent debate.AgentID, round int, data string) TokenEvent {
	return TokenEvent{baseEvent: newBaseEvent(TypeToken), Agent: agent, Round: round, Data: data}
}

func (e TokenEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeToken, Agent: e.Agent.String(), Round: e.Round, Data: e.Data})
}

// MessageEndEvent marks the end of a turn attempt, after the final
// token of a successful turn or after an AgentErrorEvent.
type MessageEndEvent struct {
	baseEvent
	Agent debate.AgentID
	Round int
}

// NewMessageEndEvent creates a MessageEndEvent.
func NewMessageEndEvent(agent debate.AgentID, round int) MessageEndEvent {
	return MessageEndEvent{baseEvent: newBaseEvent(TypeMessageEnd), Agent: agent, Round: round}
}

func (e MessageEndEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeMessageEnd, Agent: e.Agent.String(), Round: e.Round})
}

// AgentErrorEvent reports one failed backend attempt. It is
// informational: the scheduler rotates to the next backend or skips the
// turn, and the stream continues.
type AgentErrorEvent struct {
	baseEvent
	Agent debate.AgentID
	Data  string
}

// NewAgentErrorEvent creates an AgentErrorEvent.
func NewAgentErrorEvent(agent debate.AgentID, reason string) AgentErrorEvent {
	return AgentErrorEvent{baseEvent: newBaseEvent(TypeAgentError), Agent: agent, Data: reason}
}

func (e AgentErrorEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeAgentError, Agent: e.Agent.String(), Data: e.Data})
}

// RoundEndEvent marks the completion of a full round-robin cycle.
type RoundEndEvent struct {
	baseEvent
	Round int
}

// NewRoundEndEvent creates a RoundEndEvent.
func NewRoundEndEvent(round int) RoundEndEvent {
	return RoundEndEvent{baseEvent: newBaseEvent(TypeRoundEnd), Round: round}
}

func (e RoundEndEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeRoundEnd, Round: e.Round})
}

// ErrorEvent reports an unexpected stream-level failure. The loop ends
// after emitting it; a DoneEvent still follows.
type ErrorEvent struct {
	baseEvent
	Data string
}

// NewErrorEvent creates an ErrorEvent.
func NewErrorEvent(reason string) ErrorEvent {
	return ErrorEvent{baseEvent: newBaseEvent(TypeError), Data: reason}
}

func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeError, Data: e.Data})
}

// DoneEvent terminates a stream. It is emitted exactly once as the very
// last event, success or failure, so callers can reliably detect the
// end of a stream.
type DoneEvent struct {
	baseEvent
}

// NewDoneEvent creates a DoneEvent.
func NewDoneEvent() DoneEvent {
	return DoneEvent{baseEvent: newBaseEvent(TypeDone)}
}

func (e DoneEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Type: TypeDone})
}

// EncodeSSE renders an event as one server-sent-events frame:
// "data: <json>\n\n". Marshaling a stream event cannot fail (all fields
// are strings and ints), so an error here indicates a programming
// mistake and is surfaced as an error frame.
func EncodeSSE(e Event) string {
	raw, err := json.Marshal(e)
	if err != nil {
		return "data: {\"type\":\"error\",\"data\":\"event encoding failed\"}\n\n"
	}
	return "data: " + string(raw) + "\n\n"
}
