// ABOUTME: Inbound queue of human messages awaiting engine attention
// ABOUTME: Multi-producer, single-consumer with bounded polling for the engine loop

package session

import "time"

// queueCapacity bounds pending human messages. The queue only has to absorb
// a burst within one settle window; the ledger keeps the full record.
const queueCapacity = 64

// Queue buffers human-submitted messages between ingress handlers and the
// engine. Enqueue never blocks; the engine is the sole consumer.
type Queue struct {
	ch chan Message
}

// NewQueue creates an empty inbound queue.
func NewQueue() *Queue {
	return &Queue{ch: make(chan Message, queueCapacity)}
}

// Enqueue offers a message to the engine without blocking. Returns false
// if the queue is full; the message stays in the ledger either way, the
// engine is just already behind on responses.
func (q *Queue) Enqueue(m Message) bool {
	select {
	case q.ch <- m:
		return true
	default:
		return false
	}
}

// Poll waits up to timeout for a pending message. The bounded wait keeps
// the engine loop checking its shutdown deadline even with no traffic.
func (q *Queue) Poll(timeout time.Duration) (Message, bool) {
	select {
	case m := <-q.ch:
		return m, true
	case <-time.After(timeout):
		return Message{}, false
	}
}

// DrainNewest empties the queue and returns the most recent pending
// message, or last if nothing newer is queued. Used after the settle
// window to coalesce a burst into a single addressed message.
func (q *Queue) DrainNewest(last Message) Message {
	for {
		select {
		case m := <-q.ch:
			last = m
		default:
			return last
		}
	}
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	return len(q.ch)
}
