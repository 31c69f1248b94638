// ABOUTME: Reply sanitization: strip speaker-name prefixes and wrapping quotes
// ABOUTME: Enforces the configured word-count bound before acceptance

package content

import (
	"regexp"
	"strings"
)

// speakerPrefix matches a leaked "Name:" or "Name —" prefix at the start
// of a reply. Models occasionally echo their own name despite instructions.
var speakerPrefix = regexp.MustCompile(`^\w+\s*[:—-]\s*`)

// Sanitize normalizes a raw model reply: trims whitespace, strips a
// leading speaker-name prefix and any wrapping quotes, and hard-caps the
// reply at maxWords words.
func Sanitize(text string, maxWords int) string {
	text = strings.TrimSpace(text)
	text = speakerPrefix.ReplaceAllString(text, "")
	text = strings.Trim(text, `"'`)
	text = strings.TrimSpace(text)

	if maxWords > 0 {
		words := strings.Fields(text)
		if len(words) > maxWords {
			text = strings.Join(words[:maxWords], " ")
		}
	}

	return text
}
