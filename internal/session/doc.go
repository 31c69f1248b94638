// Package session holds the shared state of one live debate session: the
// two fixed personas, the current topic, the human roster, and the
// append-only message record.
//
// # Ownership
//
// The engine is the sole writer of topics, typing state, and AI messages.
// HTTP ingress handlers write only through Join and UserMessage, and hand
// human messages to the engine through the Queue. Everything else reads
// via point-in-time snapshots.
//
// # Message Record
//
// Messages form a single globally ordered, append-only sequence, the
// authoritative conversation record. Entries are immutable once appended
// and carry speaker identity, color, and timestamp so consumers render
// them without lookups. A message being streamed word-by-word is not in
// the record until the stream finalizes.
//
// # Topic Rotation
//
// The Rotator guarantees every topic in the pool is used once before any
// repeat; after a full cycle the pool resets. Repeats across cycle
// boundaries are accepted: the session must stay alive even with a small
// pool.
package session
