// ABOUTME: Tests for word-delay pacing
// ABOUTME: Covers clamping at both bounds and the zero-words floor

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWordDelay(t *testing.T) {
	budget := 18 * time.Second
	min := 60 * time.Millisecond
	max := 500 * time.Millisecond

	tests := []struct {
		name  string
		words int
		want  time.Duration
	}{
		{"mid-range divides the budget", 90, 200 * time.Millisecond},
		{"short message clamps to max", 5, max},
		{"long message clamps to min", 1000, min},
		{"zero words treated as one", 0, max},
		{"exactly at min boundary", 300, min},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wordDelay(tt.words, budget, min, max))
		})
	}
}

func TestWordDelay_TotalStaysNearBudget(t *testing.T) {
	budget := 18 * time.Second
	d := wordDelay(120, budget, 60*time.Millisecond, 500*time.Millisecond)
	total := time.Duration(120) * d
	assert.InDelta(t, budget.Seconds(), total.Seconds(), 0.5)
}
