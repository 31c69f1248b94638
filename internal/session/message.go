// ABOUTME: Message types forming the session's append-only conversation record
// ABOUTME: Wire shapes match what the presentation layer renders without further lookups

package session

import "time"

// MessageKind discriminates the entries of the conversation record.
type MessageKind string

const (
	// KindTopic marks a topic change.
	KindTopic MessageKind = "topic"
	// KindAI marks an utterance produced by one of the two personas.
	KindAI MessageKind = "message"
	// KindUser marks a human-submitted message.
	KindUser MessageKind = "user"
	// KindSystem marks join notices and similar service text.
	KindSystem MessageKind = "system"
)

// Message is one entry of the globally ordered, append-only conversation
// record. It carries everything a renderer needs (speaker identity, color,
// timestamp) so no roster lookup is required on the consumer side.
// Messages are immutable once appended.
type Message struct {
	Kind MessageKind `json:"type"`

	// AI speaker fields (KindAI)
	Speaker string `json:"speaker,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Role    string `json:"role,omitempty"`

	// Human speaker fields (KindUser)
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`

	Color string `json:"color,omitempty"`
	Text  string `json:"text"`

	// Time is the UTC wall-clock stamp rendered next to the bubble.
	Time string `json:"time"`

	// Number is the topic ordinal: for KindTopic the ordinal being entered,
	// otherwise the ordinal the message was produced under.
	Number int `json:"number,omitempty"`
}

// wallClock formats a timestamp the way the chat UI renders it.
func wallClock(t time.Time) string {
	return t.UTC().Format("15:04")
}
