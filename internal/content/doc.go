// Package content is the boundary to the LLM that produces persona
// utterances.
//
// # Overview
//
// A Source receives a persona's system prompt, a bounded role-tagged
// history (the persona's own turns as assistant, the opponent's as user),
// and a turn instruction, and returns one short utterance.
//
// GroqSource talks to Groq's OpenAI-compatible chat completions API. A
// failure on the primary model triggers exactly one retry against the
// configured backup model; if both fail the error is returned and the
// engine skips the turn.
//
// # Sanitization
//
// Raw replies are sanitized before acceptance: leaked "Name:" speaker
// prefixes and wrapping quotes are stripped, and the reply is capped at
// the configured word bound.
//
// # Testing
//
// ScriptedSource is a deterministic in-memory Source used by engine and
// server tests: replies served in order, errors injectable per call index,
// all requests recorded for assertions.
package content
