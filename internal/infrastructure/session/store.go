package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"github.com/pricelens/backend/internal/usecase"
)

// entry holds one session's workflow with its expiration deadline.
type entry struct {
	workflow  *usecase.Workflow
	expiresAt time.Time
}

// Store is a thread-safe in-memory session registry with TTL support.
// Each session owns one workflow; expiration is sliding, so any access
// renews the deadline. Expired sessions are swept periodically.
type Store struct {
	mutex    sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	factory  func() *usecase.Workflow
	log      logger.Logger
}

// NewStore creates a session store. factory builds the workflow for a fresh
// session.
func NewStore(ttl time.Duration, factory func() *usecase.Workflow, log logger.Logger) *Store {
	store := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		factory:  factory,
		log:      log.With(map[string]interface{}{"component": "session_store"}),
	}

	go store.cleanupExpired()

	return store
}

// Create registers a fresh session and returns its generated ID.
func (s *Store) Create() (string, *usecase.Workflow) {
	id := uuid.NewString()
	workflow := s.factory()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions[id] = &entry{
		workflow:  workflow,
		expiresAt: time.Now().Add(s.ttl),
	}

	s.log.Debug("session created", map[string]interface{}{"session_id": id})
	return id, workflow
}

// Get returns the workflow for an existing session, renewing its TTL.
// Returns ErrSessionNotFound for unknown or expired sessions.
func (s *Store) Get(id string) (*usecase.Workflow, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, exists := s.sessions[id]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}

	e.expiresAt = time.Now().Add(s.ttl)
	return e.workflow, nil
}

// GetOrCreate resolves the session for an incoming request: a known live ID
// is renewed and reused, anything else gets a fresh session. The returned ID
// is what the response should advertise.
func (s *Store) GetOrCreate(id string) (string, *usecase.Workflow) {
	if id != "" {
		if workflow, err := s.Get(id); err == nil {
			return id, workflow
		}
	}
	return s.Create()
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, id)
}

// Size returns the current number of live sessions (for monitoring).
func (s *Store) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

// cleanupExpired removes expired sessions periodically.
func (s *Store) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		removed := 0
		for id, e := range s.sessions {
			if now.After(e.expiresAt) {
				delete(s.sessions, id)
				removed++
			}
		}
		s.mutex.Unlock()

		if removed > 0 {
			s.log.Debug("expired sessions removed", map[string]interface{}{"count": removed})
		}
	}
}
