// Package debate defines the core domain types for a debate session:
// messages, sessions, agent identities, modes, and the structured
// conclusion payload.
//
// A debate is a round-robin conversation over a user proposal. A fixed
// roster of roles speaks in order; each turn is produced by an agent,
// the pairing of one role with one model backend. The composite
// identity is rendered as "role:backendId" only at the wire boundary.
//
// # Session Lifecycle
//
// A session progresses through three states:
//
//   - Running: the orchestrator loop is producing turns
//   - Completed: the loop stopped cleanly (abort or conclusion)
//   - Error: the loop ended with an unexpected failure
//
// Sessions are never persisted server-side. A resume mints a fresh
// session seeded with history the client replays; the client is the
// system of record across reconnects.
package debate
