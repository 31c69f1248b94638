// ABOUTME: Package documentation for the session engine
// ABOUTME: Describes the single-loop concurrency model and turn scheduling

// Package engine drives a debate session from a single goroutine.
//
// # Concurrency Model
//
// Exactly one Run loop exists per session. It is the only consumer of the
// inbound human-message queue, the only code that rotates topics or appends
// AI messages to session state, and the only publisher of streaming events.
// HTTP handlers never mutate the conversation directly; they enqueue and
// the engine decides. This keeps turn scheduling free of locks beyond the
// ones session.State already holds for its readers.
//
// # Scheduling
//
// Each loop iteration checks, in order: remaining uptime (shutdown when
// below the threshold), per-topic budget (rotate when spent), pending human
// messages (respond after a settle window, coalescing bursts to the newest
// message), and finally the auto-turn timer. Scheduled turns alternate
// personas; human responses go to whichever persona did not speak last.
//
// A failed content turn advances nothing. The engine clears the typing
// indicator, backs off, and the next iteration retries from the same
// position.
//
// # Streaming
//
// Utterances are published word by word with a per-word delay derived from
// a fixed time budget, clamped to keep short messages readable and long
// ones tolerable. A stream in progress is never interrupted, not even by
// shutdown: cancellation is only observed between iterations.
package engine
