package handlers

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type session struct {
	id        string
	project   string
	cancelled atomic.Bool
}

// Sessions tracks running simulations so they can be cancelled by id.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*session
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*session)}
}

func (s *Sessions) start(project string) *session {
	sess := &session{id: "sim_" + uuid.NewString(), project: project}

	s.mu.Lock()
	s.byID[sess.id] = sess
	s.mu.Unlock()

	return sess
}

func (s *Sessions) finish(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}

// Cancel flags the session; the run stops at its next tick. It reports
// whether the session exists.
func (s *Sessions) Cancel(id string) bool {
	s.mu.Lock()
	sess, ok := s.byID[id]
	s.mu.Unlock()

	if !ok {
		return false
	}
	sess.cancelled.Store(true)
	return true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// ForProject returns the ids of the running sessions of project, sorted.
func (s *Sessions) ForProject(project string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []string{}
	for id, sess := range s.byID {
		if sess.project == project {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
