// Package bus provides the in-memory broadcast bus that fans session
// events out to every connected viewer.
//
// # Overview
//
// The engine publishes named events (topic changes, typing indicators,
// per-word stream tokens, presence updates) and any number of HTTP stream
// handlers subscribe on behalf of their clients. Delivery is ordered per
// listener: every listener sees events in publish order.
//
// # Backpressure
//
// Publish never blocks. Each listener owns a bounded inbox; a listener
// whose inbox fills up is considered dead, removed after the publish pass,
// and its channel closed. Dropped events are not resent; a reconnecting
// client recovers through the fullstate snapshot instead.
//
// # Usage
//
//	b := bus.New(logger)
//	l := b.Subscribe()
//	defer b.Unsubscribe(l)
//
//	for ev := range l.Events() {
//	    // write to SSE stream
//	}
//
// Publishing:
//
//	b.Publish("newtopic", payload)  // payload marshaled once
package bus
