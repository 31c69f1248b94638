// ABOUTME: Tests for the topic rotator coverage guarantee
// ABOUTME: Verifies no repeats within a cycle and pool reset after exhaustion

package session

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotator_FullCoverageBeforeRepeat(t *testing.T) {
	pool := make([]string, 10)
	for i := range pool {
		pool[i] = fmt.Sprintf("topic-%d", i)
	}

	r := NewRotator(pool, rand.New(rand.NewSource(1)))

	seen := make(map[string]bool)
	for i := 0; i < len(pool); i++ {
		topic := r.Pick()
		assert.False(t, seen[topic], "topic %q repeated before pool exhausted", topic)
		seen[topic] = true
	}
	assert.Len(t, seen, len(pool))
}

func TestRotator_ResetsAfterExhaustion(t *testing.T) {
	pool := []string{"a", "b", "c"}
	r := NewRotator(pool, rand.New(rand.NewSource(7)))

	for i := 0; i < len(pool); i++ {
		r.Pick()
	}

	// Immediately after exhaustion, all topics are eligible again and the
	// next cycle again covers the whole pool before repeating.
	seen := make(map[string]bool)
	for i := 0; i < len(pool); i++ {
		seen[r.Pick()] = true
	}
	assert.Len(t, seen, len(pool))
}

func TestRotator_SingleTopicPool(t *testing.T) {
	r := NewRotator([]string{"only"}, rand.New(rand.NewSource(3)))

	for i := 0; i < 5; i++ {
		assert.Equal(t, "only", r.Pick())
	}
}

func TestRotator_DeterministicWithSeed(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}

	r1 := NewRotator(pool, rand.New(rand.NewSource(42)))
	r2 := NewRotator(pool, rand.New(rand.NewSource(42)))

	for i := 0; i < 12; i++ {
		assert.Equal(t, r1.Pick(), r2.Pick(), "pick %d diverged", i)
	}
}
