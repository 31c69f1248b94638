// ABOUTME: Scripted in-memory content source for tests and offline runs
// ABOUTME: Returns queued replies or queued errors in call order

package content

import (
	"context"
	"sync"
)

// ScriptedSource is a deterministic Source for tests. Replies are served
// in order, cycling when exhausted. FailAt maps call indexes (0-based) to
// errors returned instead of a reply. Every request is recorded.
type ScriptedSource struct {
	mu       sync.Mutex
	Replies  []string
	FailAt   map[int]error
	Requests []Request
	calls    int
}

// NewScripted creates a scripted source that cycles through the given
// replies.
func NewScripted(replies ...string) *ScriptedSource {
	return &ScriptedSource{Replies: replies}
}

// Generate returns the next scripted reply or injected error.
func (s *ScriptedSource) Generate(_ context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	s.calls++
	s.Requests = append(s.Requests, req)

	if err, ok := s.FailAt[i]; ok {
		return "", err
	}
	if len(s.Replies) == 0 {
		return "", nil
	}
	return s.Replies[i%len(s.Replies)], nil
}

// Calls returns how many times Generate was invoked.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastRequest returns the most recent recorded request, or a zero Request
// if Generate was never called.
func (s *ScriptedSource) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return Request{}
	}
	return s.Requests[len(s.Requests)-1]
}
