// ABOUTME: Package documentation for the HTTP boundary
// ABOUTME: Describes the ingress/egress split around the session engine

// Package server exposes one debate session over HTTP.
//
// The boundary is deliberately thin. Handlers validate, record, and
// broadcast; they never decide conversation flow. A human message is
// appended to the session ledger and enqueued for the engine in the same
// request, so it is visible to every viewer immediately even when the
// engine takes its time responding.
//
// # Endpoints
//
//   - POST /join: register a display name, get an id and color
//   - POST /send: submit a message under a previously issued id
//   - GET /stream: SSE, a fullstate snapshot then live events
//   - GET /health: session clock and viewer count
//
// # Streaming
//
// Each /stream connection subscribes to the session bus. The snapshot is
// taken after subscribing so no event falls between snapshot and stream.
// Idle connections get a ping every 25 seconds carrying the remaining
// session time; a viewer that stops draining its buffer is dropped by the
// bus rather than allowed to stall the session.
package server
