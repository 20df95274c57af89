package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers a fresh, locked session.
func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString(), s.now)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get looks a session up and marks it active.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.mu.Lock()
		sess.touch()
		sess.mu.Unlock()
	}
	return sess, ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Reset()
		delete(s.sessions, id)
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune removes sessions idle since before cutoff and reports how many went.
func (s *Store) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			sess.Reset()
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
