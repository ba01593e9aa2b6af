package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/energy-forecast/internal/page"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("session not found")
)

// Session is one browser's page, addressed by its cookie id.
type Session struct {
	ID       string
	Page     *page.Page
	LastSeen time.Time
}

// MemoryStore is a concurrency-safe in-memory session store.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]*Session

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // idle time after which a session is evicted

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, that limit is disabled.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*Session),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Create stores p under a fresh id, evicting the least recently seen
// sessions when the count limit is exceeded.
func (s *MemoryStore) Create(p *page.Page) *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		Page:     p,
		LastSeen: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[sess.ID] = sess

	if s.maxSessions > 0 && len(s.data) > s.maxSessions {
		sessions := make([]*Session, 0, len(s.data))
		for _, other := range s.data {
			if other.ID != sess.ID {
				sessions = append(sessions, other)
			}
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].LastSeen.Before(sessions[j].LastSeen)
		})
		over := len(s.data) - s.maxSessions
		for _, old := range sessions[:over] {
			delete(s.data, old.ID)
		}
	}
	return sess
}

// Get returns the session for id and marks it as seen.
func (s *MemoryStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(sess, s.now()) {
		delete(s.data, id)
		return nil, ErrNotFound
	}
	sess.LastSeen = s.now()
	return sess, nil
}

// Delete removes the session for id, if any.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

// EvictExpired removes sessions idle for longer than maxAge and returns
// how many were removed.
func (s *MemoryStore) EvictExpired() int {
	if s.maxAge <= 0 {
		return 0
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.data {
		if s.expired(sess, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(sess *Session, now time.Time) bool {
	return s.maxAge > 0 && now.Sub(sess.LastSeen) > s.maxAge
}
