package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
)

// Session holds everything one uploaded grid needs for repeated runs: the
// assembled network, the synthesized profiles, and the last aggregate.
// Sessions do not survive a restart; persist externally if that matters.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	Network  *grid.Network
	Profiles *profile.Set

	mu            sync.Mutex
	lastAggregate *model.DailyAggregate
}

// SetAggregate stores the most recent run result.
func (s *Session) SetAggregate(agg *model.DailyAggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAggregate = agg
}

// Aggregate returns the most recent run result, or nil before the first run.
func (s *Session) Aggregate() *model.DailyAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAggregate
}

// SessionStore is an in-memory session registry with TTL-based expiry.
type SessionStore struct {
	mu    sync.RWMutex
	store map[string]*Session
	ttl   time.Duration
}

// NewSessionStore creates a store; ttl <= 0 disables expiry. The cleanup
// goroutine runs for the life of the process.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		store: make(map[string]*Session),
		ttl:   ttl,
	}
	if ttl > 0 {
		go s.cleanup()
	}
	return s
}

// Put registers a session under a fresh id and returns it.
func (s *SessionStore) Put(sess *Session) *Session {
	sess.ID = uuid.NewString()
	sess.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[sess.ID] = sess
	return sess
}

// Get retrieves a session by id.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.store[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(sess.CreatedAt) > s.ttl {
		return nil, false
	}
	return sess, true
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

func (s *SessionStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, sess := range s.store {
			if now.Sub(sess.CreatedAt) > s.ttl {
				delete(s.store, id)
			}
		}
		s.mu.Unlock()
	}
}
