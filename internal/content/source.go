// ABOUTME: Content source boundary: turns persona context into short utterances
// ABOUTME: Defines the Source interface and the prompt request shape

package content

import "context"

// historyWindow bounds how much conversation context is sent per request.
const historyWindow = 16

// Exchange is one prior utterance as seen from the requesting persona's
// perspective: its own turns are tagged self, the opponent's are not.
type Exchange struct {
	Self bool
	Text string
}

// Request carries everything a source needs for one utterance: the persona
// system prompt, bounded role-tagged history, and the turn instruction.
type Request struct {
	System      string
	History     []Exchange
	Instruction string
}

// Source produces a short utterance for a persona. Implementations may
// fail transiently; the engine treats any error as skip-this-turn.
type Source interface {
	Generate(ctx context.Context, req Request) (string, error)
}
