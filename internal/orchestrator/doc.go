// Package orchestrator implements the round-robin turn scheduler at the
// heart of a debate: it picks the next role, picks a backend for that
// role with fallback rotation, builds the prompt, streams the response,
// appends it to history, and publishes a structured event stream.
//
// # Scheduling Model
//
// One logical stream of control per session: one loop, one in-flight
// backend call at a time, no parallel agent turns. The loop runs until
// the context is canceled (pause or stop) or an unexpected failure
// occurs; a done event always terminates the stream, exactly once.
//
// Turn index t increases by exactly one per role visited. The round
// number is floor(t/N)+1 for a roster of N roles; round_start fires
// whenever t mod N == 0. On resume, t starts at the count of replayed
// non-user messages, preserving the round-robin position across a
// pause.
//
// # Fallback Rotation
//
// Each role carries its own cursor into the backend roster, initialized
// to a deterministic spread (role index mod M) so roles start on
// different backends. A turn tries backends from the cursor onward, up
// to M attempts; success advances the cursor past the backend that
// worked, exhaustion leaves it unchanged and skips the turn. Per-role
// cursors mean one unreliable backend degrades only the roles currently
// pointing at it, and success never leaves a role parked on a broken
// backend.
//
// # Cancellation
//
// The abort signal (context cancellation) is checked before each
// backend call, after each fragment, and before appending a completed
// message. A turn either fully completes or is discarded in full;
// history is always a whole number of completed turns.
package orchestrator
