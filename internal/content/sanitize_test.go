// ABOUTME: Tests for reply sanitization
// ABOUTME: Covers speaker-prefix stripping, quote trimming, and word capping

package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxWords int
		want     string
	}{
		{
			name:     "plain text untouched",
			in:       "The market will adapt faster than you think.",
			maxWords: 80,
			want:     "The market will adapt faster than you think.",
		},
		{
			name:     "colon speaker prefix stripped",
			in:       "Nova: Hope is a strategy when paired with action.",
			maxWords: 80,
			want:     "Hope is a strategy when paired with action.",
		},
		{
			name:     "em dash speaker prefix stripped",
			in:       "Axiom — the data disagrees.",
			maxWords: 80,
			want:     "the data disagrees.",
		},
		{
			name:     "hyphen speaker prefix stripped",
			in:       "Axiom - the data disagrees.",
			maxWords: 80,
			want:     "the data disagrees.",
		},
		{
			name:     "wrapping double quotes stripped",
			in:       `"Quoted reply."`,
			maxWords: 80,
			want:     "Quoted reply.",
		},
		{
			name:     "wrapping single quotes stripped",
			in:       "'Quoted reply.'",
			maxWords: 80,
			want:     "Quoted reply.",
		},
		{
			name:     "surrounding whitespace trimmed",
			in:       "  spaced out  ",
			maxWords: 80,
			want:     "spaced out",
		},
		{
			name:     "interior quotes preserved",
			in:       `They said "never" and meant it.`,
			maxWords: 80,
			want:     `They said "never" and meant it.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in, tt.maxWords))
		})
	}
}

func TestSanitize_WordCap(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = "w"
	}
	in := strings.Join(words, " ")

	out := Sanitize(in, 80)
	assert.Len(t, strings.Fields(out), 80)

	// Zero cap means uncapped.
	out = Sanitize(in, 0)
	assert.Len(t, strings.Fields(out), 100)
}
