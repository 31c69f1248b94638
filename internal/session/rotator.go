// ABOUTME: Topic rotator guaranteeing full-pool coverage before any repeat
// ABOUTME: Uniform random pick from the unused subset, reset on exhaustion

package session

import "math/rand"

// Rotator supplies the next discussion subject. Within one coverage cycle
// no topic repeats; once the pool is exhausted the used set resets and
// every topic becomes eligible again.
type Rotator struct {
	pool []string
	used map[string]bool
	rng  *rand.Rand
}

// NewRotator creates a rotator over the given pool using the session's
// random source.
func NewRotator(pool []string, rng *rand.Rand) *Rotator {
	return &Rotator{
		pool: pool,
		used: make(map[string]bool, len(pool)),
		rng:  rng,
	}
}

// Pick returns a topic drawn uniformly from the subset not yet used this
// cycle, marking it used. Not safe for concurrent use; only the engine
// rotates topics.
func (r *Rotator) Pick() string {
	avail := make([]string, 0, len(r.pool))
	for _, t := range r.pool {
		if !r.used[t] {
			avail = append(avail, t)
		}
	}
	if len(avail) == 0 {
		r.used = make(map[string]bool, len(r.pool))
		avail = append(avail, r.pool...)
	}

	t := avail[r.rng.Intn(len(avail))]
	r.used[t] = true
	return t
}
