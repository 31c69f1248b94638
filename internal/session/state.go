// ABOUTME: Session state: personas, topic, roster, and the append-only message record
// ABOUTME: Mutated by the engine and ingress handlers, snapshotted by any number of readers

package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/agora/internal/catalog"
)

// Boundary validation errors returned synchronously to ingress callers.
var (
	// ErrEmptyName means a join request carried no usable display name.
	ErrEmptyName = errors.New("name required")

	// ErrUnknownUser means a send referenced a participant id that never joined.
	ErrUnknownUser = errors.New("not joined")

	// ErrEmptyText means a send carried no usable text.
	ErrEmptyText = errors.New("empty message")
)

const (
	// maxNameLen caps caller-supplied display names.
	maxNameLen = 20
	// maxTextLen caps human message text.
	maxTextLen = 500
	// snapshotWindow is the trailing message count served in snapshots.
	snapshotWindow = 120
)

// userColors is the fixed round-robin palette assigned to joining humans.
var userColors = []string{
	"#ff9800", "#e91e63", "#9c27b0", "#03a9f4",
	"#4caf50", "#ff5722", "#00bcd4", "#cddc39",
	"#f44336", "#3f51b5", "#8bc34a", "#795548",
}

// User is a human participant. Users are never removed during a session.
type User struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Joined time.Time `json:"joined"`
}

// State is the session's shared state. The engine is the sole writer of
// topic, typing, and AI/topic messages; ingress handlers write the roster
// and user messages. All access goes through the mutex, and readers get
// point-in-time snapshots rather than live references.
type State struct {
	mu sync.RWMutex

	personaA catalog.Persona
	personaB catalog.Persona

	topic    string
	topicNum int

	messages []Message

	users      map[string]*User
	userOrder  []string // join order, for stable roster listings
	colorIndex int

	typing string

	boot      time.Time
	maxUptime time.Duration
}

// New creates session state for the two given personas.
func New(a, b catalog.Persona, maxUptime time.Duration) *State {
	return &State{
		personaA:  a,
		personaB:  b,
		users:     make(map[string]*User),
		boot:      time.Now(),
		maxUptime: maxUptime,
	}
}

// Personas returns the two fixed AI participants.
func (s *State) Personas() (catalog.Persona, catalog.Persona) {
	return s.personaA, s.personaB
}

// Boot returns the session boot time.
func (s *State) Boot() time.Time {
	return s.boot
}

// MaxUptime returns the session's uptime budget.
func (s *State) MaxUptime() time.Duration {
	return s.maxUptime
}

// TimeLeft returns the remaining session time, floored at zero.
func (s *State) TimeLeft() time.Duration {
	left := s.maxUptime - time.Since(s.boot)
	if left < 0 {
		return 0
	}
	return left
}

// RotateTopic installs a new topic, bumps the strictly increasing ordinal,
// and appends the topic-change message. Returns the appended message.
func (s *State) RotateTopic(topic string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topic = topic
	s.topicNum++

	msg := Message{
		Kind:   KindTopic,
		Text:   topic,
		Time:   wallClock(time.Now()),
		Number: s.topicNum,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Topic returns the current topic text and ordinal.
func (s *State) Topic() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topic, s.topicNum
}

// AppendAI appends a finalized persona utterance and clears the typing
// indicator. Word events are bus-only until this point.
func (s *State) AppendAI(p catalog.Persona, text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		Kind:    KindAI,
		Speaker: p.Name,
		Avatar:  p.Avatar,
		Color:   p.Color,
		Role:    p.Role,
		Text:    text,
		Time:    wallClock(time.Now()),
		Number:  s.topicNum,
	}
	s.messages = append(s.messages, msg)
	s.typing = ""
	return msg
}

// SetTyping records which persona is about to produce an utterance.
func (s *State) SetTyping(name string) {
	s.mu.Lock()
	s.typing = name
	s.mu.Unlock()
}

// ClearTyping clears the typing indicator.
func (s *State) ClearTyping() {
	s.SetTyping("")
}

// Join validates a display name, assigns a participant id and the next
// palette color, adds the user to the roster, and appends a system join
// notice. Returns the new user and the notice for broadcasting.
func (s *State) Join(name string) (User, Message, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, Message{}, ErrEmptyName
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &User{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Color:  userColors[s.colorIndex%len(userColors)],
		Joined: time.Now(),
	}
	s.colorIndex++
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)

	notice := Message{
		Kind:   KindSystem,
		Text:   "👋 " + name + " joined the debate",
		Time:   wallClock(time.Now()),
		Number: s.topicNum,
	}
	s.messages = append(s.messages, notice)

	return *u, notice, nil
}

// UserMessage validates a human message against the roster, appends it to
// the record, and returns it for broadcasting and engine queueing.
func (s *State) UserMessage(userID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxTextLen {
		text = string(runes[:maxTextLen])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return Message{}, ErrUnknownUser
	}
	if text == "" {
		return Message{}, ErrEmptyText
	}

	msg := Message{
		Kind:     KindUser,
		UserID:   u.ID,
		UserName: u.Name,
		Color:    u.Color,
		Text:     text,
		Time:     wallClock(time.Now()),
		Number:   s.topicNum,
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

// Roster returns the joined users in join order.
func (s *State) Roster() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rosterLocked()
}

func (s *State) rosterLocked() []User {
	out := make([]User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, *s.users[id])
	}
	return out
}

// UserCount returns the number of humans that ever joined.
func (s *State) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// CountKind returns how many messages of the given kind were appended.
func (s *State) CountKind(kind MessageKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Recent returns a copy of the trailing n messages.
func (s *State) Recent(n int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(s.messages)-start)
	copy(out, s.messages[start:])
	return out
}

// Snapshot is a consistent, immutable copy of session state served to new
// or reconnecting observers before any incremental event.
type Snapshot struct {
	PersonaA  catalog.Persona `json:"char_a"`
	PersonaB  catalog.Persona `json:"char_b"`
	Topic     string          `json:"topic"`
	TopicNum  int             `json:"topic_num"`
	Messages  []Message       `json:"messages"`
	Typing    string          `json:"typing,omitempty"`
	Users     []User          `json:"users"`
	Boot      int64           `json:"boot"`
	MaxUptime int             `json:"max_up"`
	TimeLeft  int             `json:"timeleft"`
	Viewers   int             `json:"viewers"`
}

// Snapshot returns a last-known-good point-in-time copy: roster, topic, a
// trailing message window, and computed time remaining. A message that is
// mid-stream is not included; word events are bus-only until finalized.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.messages) - snapshotWindow
	if start < 0 {
		start = 0
	}
	msgs := make([]Message, len(s.messages)-start)
	copy(msgs, s.messages[start:])

	left := s.maxUptime - time.Since(s.boot)
	if left < 0 {
		left = 0
	}

	return Snapshot{
		PersonaA:  s.personaA,
		PersonaB:  s.personaB,
		Topic:     s.topic,
		TopicNum:  s.topicNum,
		Messages:  msgs,
		Typing:    s.typing,
		Users:     s.rosterLocked(),
		Boot:      s.boot.Unix(),
		MaxUptime: int(s.maxUptime.Seconds()),
		TimeLeft:  int(left.Seconds()),
	}
}
