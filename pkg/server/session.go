package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/browser"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrSessionNotFound = errors.New("session not found")

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "slaskcatalog_active_sessions",
	Help: "Number of browsing sessions held in memory",
})

type sessionEntry struct {
	session  *browser.Session
	lastSeen time.Time
}

// SessionStore keeps the browsing state per session id. Nothing is
// persisted, idle sessions are dropped after ttl.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*sessionEntry
	factory  func() *browser.Session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, factory func() *browser.Session) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*sessionEntry),
		factory:  factory,
		now:      time.Now,
	}
}

func (s *SessionStore) Get(id string) (*browser.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = s.now()
	return entry.session, nil
}

func (s *SessionStore) GetOrCreate(id string) *browser.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		entry = &sessionEntry{session: s.factory()}
		s.sessions[id] = entry
		activeSessions.Inc()
	}
	entry.lastSeen = s.now()
	return entry.session
}

func (s *SessionStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	activeSessions.Dec()
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reset drops every session, used when the catalog snapshot is replaced.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	activeSessions.Sub(float64(len(s.sessions)))
	clear(s.sessions)
}

// Evict removes sessions idle for longer than the ttl and returns how many went.
func (s *SessionStore) Evict() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	activeSessions.Sub(float64(evicted))
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				logging.Log.Debugf("Evicted %d idle sessions", n)
			}
		}
	}
}
