// Package event defines the debate stream event union and a small
// synchronous pub-sub bus for delivering it.
//
// A debate stream is a strictly ordered sequence of eight event kinds:
//
//	round_start   - a full round-robin cycle begins
//	message_start - an agent's turn attempt begins
//	token         - one streamed text fragment of the active attempt
//	message_end   - the attempt ended (success or after agent_error)
//	agent_error   - one backend attempt failed (informational, never fatal)
//	round_end     - the last role of a cycle finished its attempts
//	error         - an unexpected stream-level failure
//	done          - always the final event, exactly once per stream
//
// Each kind is a distinct type implementing [Event]; the union is
// rendered at the wire boundary as one JSON object with a "type" tag
// and per-kind fields, framed as "data: <json>\n\n" for SSE delivery.
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously in
// subscription order, so a single subscriber observes events in exactly
// the order they were published. A panicking handler is recovered and
// logged without blocking delivery to the remaining handlers.
package event
