// ABOUTME: Word-by-word streaming pace computation
// ABOUTME: Spreads a message over a target display budget within rate bounds

package engine

import "time"

// wordDelay computes the per-word emission delay for a message of the
// given word count: the target budget spread evenly across the words,
// clamped so the stream is never instantaneous and never outlasts the
// inter-turn gap.
func wordDelay(words int, budget, min, max time.Duration) time.Duration {
	if words < 1 {
		words = 1
	}

	d := budget / time.Duration(words)
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}
