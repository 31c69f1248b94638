// ABOUTME: SSE streaming endpoint for viewers
// ABOUTME: Sends a fullstate snapshot, then relays bus events with idle pings

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// pingInterval is how long a stream may sit idle before the server sends
// a keepalive carrying the session clock.
const pingInterval = 25 * time.Second

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering

	// Subscribe before taking the snapshot so nothing published in
	// between is lost; at worst the client sees an event it already has.
	lst := s.bus.Subscribe()
	defer s.bus.Unsubscribe(lst)

	s.logger.Debug("viewer connected", "viewers", s.bus.Viewers())

	snap := s.state.Snapshot()
	snap.Viewers = s.bus.Viewers()
	if !s.sendEvent(w, flusher, "fullstate", mustMarshal(snap)) {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("viewer disconnected", "viewers", s.bus.Viewers()-1)
			return

		case ev, ok := <-lst.Events():
			if !ok {
				// Bus closed: session over.
				return
			}
			if !s.sendEvent(w, flusher, ev.Name, ev.Data) {
				return
			}
			ping.Reset(pingInterval)

		case <-ping.C:
			payload := mustMarshal(map[string]any{
				"timeleft": int(s.state.TimeLeft().Seconds()),
				"viewers":  s.bus.Viewers(),
			})
			if !s.sendEvent(w, flusher, "ping", payload) {
				return
			}
		}
	}
}

// sendEvent writes one SSE frame. A false return means the client is gone.
func (s *Server) sendEvent(w http.ResponseWriter, flusher http.Flusher, name string, data []byte) bool {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with an unmarshalable payload type, which would
		// be a programming error.
		panic(err)
	}
	return data
}
