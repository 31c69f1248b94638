// ABOUTME: Prompt construction for persona turns
// ABOUTME: System prompts, opening instruction, and the rhetorical directive set

package engine

import (
	"fmt"
	"strings"

	"github.com/2389/agora/internal/catalog"
	"github.com/2389/agora/internal/session"
)

// directives are the rhetorical moves applied to the opponent's most
// recent utterance on non-opening auto turns. One is drawn at random per
// turn to keep the exchange from falling into a monotone pattern.
var directives = []func(name, last string) string{
	func(name, last string) string {
		return fmt.Sprintf("Respond to %s: %q\nPush back on their weakest point.", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nGive a real-world example that counters this.", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nAcknowledge something right, then hit harder.", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nAsk a sharp question they'd struggle with.", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nExpose the assumption behind their argument.", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nBring up something nobody has mentioned yet.", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nWhy does this topic matter to someone like you?", name, last)
	},
	func(name, last string) string {
		return fmt.Sprintf("%s said: %q\nWhere do you both agree vs truly disagree?", name, last)
	},
}

// autoSystemPrompt is the persona system prompt for AI-to-AI turns.
func autoSystemPrompt(cur, other catalog.Persona, topic string, msgNum int, humansPresent bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s — %s.\n", cur.Name, cur.Role)
	fmt.Fprintf(&b, "Personality: %s.\n", cur.Personality)
	fmt.Fprintf(&b, "Style: %s.\n", cur.Style)
	fmt.Fprintf(&b, "Debating %q with %s (%s).\n", topic, other.Name, other.Role)
	if humansPresent {
		b.WriteString("There are humans watching and participating — acknowledge them occasionally.\n")
	}
	b.WriteString("Under 80 words. Sharp, direct, conversational.\n")
	b.WriteString("Don't start with your name. No quotes. Engage their points.\n")
	fmt.Fprintf(&b, "Message %d of ongoing conversation — keep it flowing.\n", msgNum)
	b.WriteString("Don't repeat yourself.")
	return b.String()
}

// humanSystemPrompt is the persona system prompt when addressing a human
// participant directly.
func humanSystemPrompt(cur, other catalog.Persona, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s — %s.\n", cur.Name, cur.Role)
	fmt.Fprintf(&b, "Personality: %s.\n", cur.Personality)
	fmt.Fprintf(&b, "Style: %s.\n", cur.Style)
	fmt.Fprintf(&b, "You're in a live group debate about %q with %s (%s) and human participants.\n",
		topic, other.Name, other.Role)
	b.WriteString("A human has joined and said something. Respond to them directly — use their name.\n")
	b.WriteString("Be warm but stay in character. Under 80 words. Be conversational.")
	return b.String()
}

// openingInstruction starts a fresh topic.
func openingInstruction(topic string) string {
	return fmt.Sprintf("Topic: %q\nYou go first. Opening thought. Under 80 words.", topic)
}

// humanInstruction builds the turn instruction for responding to a human,
// embedding the recent chat lines so the reply lands in context.
func humanInstruction(topic string, recent []session.Message) string {
	return fmt.Sprintf("Topic: %q\nRecent chat:\n%s\n\nRespond to the human's message. Under 80 words.",
		topic, chatLines(recent, 5))
}

// chatLines renders the trailing n renderable messages as "Name: text"
// lines for prompt context.
func chatLines(msgs []session.Message, n int) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch m.Kind {
		case session.KindUser:
			lines = append(lines, m.UserName+": "+m.Text)
		case session.KindAI:
			lines = append(lines, m.Speaker+": "+m.Text)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
