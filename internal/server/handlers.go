// ABOUTME: HTTP handlers for joining, sending, and health
// ABOUTME: Thin validation layer; all conversation decisions belong to the engine

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2389/agora/internal/session"
)

type joinRequest struct {
	Name string `json:"name"`
}

type joinResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type sendRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, notice, err := s.state.Join(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("user joined", "user", user.Name, "id", user.ID)

	s.bus.Publish("system", notice)
	s.publishPresence()

	writeJSON(w, http.StatusOK, joinResponse{ID: user.ID, Name: user.Name, Color: user.Color})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	msg, err := s.state.UserMessage(req.ID, req.Text)
	switch {
	case errors.Is(err, session.ErrUnknownUser):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.bus.Publish("usermsg", msg)

	// The ledger already has the message; the queue only asks the engine
	// to address it. A full queue is not a client error.
	if !s.queue.Enqueue(msg) {
		s.logger.Warn("inbound queue full, message recorded but not scheduled",
			"user", msg.UserName)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"timeleft": int(s.state.TimeLeft().Seconds()),
		"viewers":  s.bus.Viewers(),
	})
}

// publishPresence broadcasts the current roster and viewer count.
func (s *Server) publishPresence() {
	s.bus.Publish("presence", map[string]any{
		"users":   s.state.Roster(),
		"viewers": s.bus.Viewers(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
