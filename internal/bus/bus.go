// ABOUTME: In-memory fan-out event bus for streaming session events to viewers
// ABOUTME: Non-blocking publish with bounded per-listener inboxes and dead-listener removal

package bus

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const (
	// listenerBufferSize is the inbox capacity for each listener. A viewer
	// that falls this far behind is dropped rather than stalling the engine.
	listenerBufferSize = 400
)

// Event is a single named event with its payload already serialized.
// Publish marshals the payload exactly once, so every listener shares the
// same bytes.
type Event struct {
	Name string
	Data []byte
}

// Listener is a handle to a subscription. Events arrive on Events() in
// publish order until the listener is unsubscribed or dropped for falling
// behind.
type Listener struct {
	id     string
	inbox  chan Event
	closed bool // guarded by the owning Bus's mu
}

// Events returns the listener's inbox. The channel is closed on
// unsubscribe and on removal.
func (l *Listener) Events() <-chan Event {
	return l.inbox
}

// Bus provides in-memory pub/sub for session events. Listeners register
// dynamically and receive every event published while subscribed, in
// publish order. Publish never blocks on a slow listener: a listener whose
// inbox is full is marked dead and removed after the publish pass.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string]*Listener
	logger    *slog.Logger
}

// New creates a bus. Pass nil logger for default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		listeners: make(map[string]*Listener),
		logger:    logger.With("component", "bus"),
	}
}

// Subscribe registers a new listener with a bounded inbox.
func (b *Bus) Subscribe() *Listener {
	l := &Listener{
		id:    uuid.New().String(),
		inbox: make(chan Event, listenerBufferSize),
	}

	b.mu.Lock()
	b.listeners[l.id] = l
	count := len(b.listeners)
	b.mu.Unlock()

	b.logger.Debug("listener added", "listener_id", l.id, "viewers", count)
	return l
}

// Unsubscribe removes a listener and closes its inbox. Idempotent: safe to
// call more than once or after the listener was already dropped.
func (b *Bus) Unsubscribe(l *Listener) {
	if l == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(l)
}

// removeLocked drops a listener while holding b.mu.
func (b *Bus) removeLocked(l *Listener) {
	if l.closed {
		return
	}
	if _, ok := b.listeners[l.id]; !ok {
		return
	}
	delete(b.listeners, l.id)
	l.closed = true
	close(l.inbox)

	b.logger.Debug("listener removed", "listener_id", l.id, "viewers", len(b.listeners))
}

// Viewers returns the current number of subscribed listeners.
func (b *Bus) Viewers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Publish serializes the payload once and enqueues the event into every
// listener's inbox without blocking. Listeners whose inboxes are full are
// removed after the publish pass; the dropped event is not resent and no
// other listener's delivery is affected.
func (b *Bus) Publish(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to marshal event", "event", name, "error", err)
		return
	}
	ev := Event{Name: name, Data: data}

	// Sends are non-blocking, so the read lock is held for the whole pass.
	// This keeps Unsubscribe from closing an inbox mid-send.
	b.mu.RLock()
	var dead []*Listener
	for _, l := range b.listeners {
		select {
		case l.inbox <- ev:
			// Sent
		default:
			// Inbox full: this listener is too far behind to keep.
			dead = append(dead, l)
		}
	}
	b.mu.RUnlock()

	if len(dead) == 0 {
		return
	}

	b.mu.Lock()
	for _, l := range dead {
		b.logger.Debug("dropping slow listener", "listener_id", l.id, "event", name)
		b.removeLocked(l)
	}
	b.mu.Unlock()
}

// Close shuts down the bus and closes all listener inboxes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, l := range b.listeners {
		l.closed = true
		close(l.inbox)
	}
	b.listeners = make(map[string]*Listener)

	b.logger.Debug("bus closed")
}
