package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"padron/internal/domain"
	"padron/internal/padron"
	"padron/internal/port"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

type sessionStore struct {
	mu       sync.RWMutex
	entries  map[uuid.UUID]entry
	progress map[uuid.UUID]padron.Progress
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an in-process SessionStore. Sessions are stored as
// JSON snapshots, so callers never share a *padron.Session across requests.
// A zero ttl keeps sessions until deleted.
func NewSessionStore(ttl time.Duration) port.SessionStore {
	return newSessionStore(ttl, time.Now)
}

// NewSessionStoreWithClock is NewSessionStore with an injectable clock.
func NewSessionStoreWithClock(ttl time.Duration, now func() time.Time) port.SessionStore {
	return newSessionStore(ttl, now)
}

func newSessionStore(ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{
		entries:  make(map[uuid.UUID]entry),
		progress: make(map[uuid.UUID]padron.Progress),
		ttl:      ttl,
		now:      now,
	}
}

func (s *sessionStore) Get(_ context.Context, id uuid.UUID) (*padron.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, domain.ErrSessionNotFound
	}

	var session padron.Session
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("memory.SessionStore.Get: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Save(_ context.Context, session *padron.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("memory.SessionStore.Save: %w", err)
	}
	e := entry{data: data}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.ID] = e
	s.sweep()
	return nil
}

func (s *sessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	delete(s.progress, id)
	return nil
}

func (s *sessionStore) SetProgress(_ context.Context, id uuid.UUID, p padron.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return domain.ErrSessionNotFound
	}
	s.progress[id] = p
	return nil
}

func (s *sessionStore) GetProgress(_ context.Context, id uuid.UUID) (padron.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		return padron.Progress{}, domain.ErrSessionNotFound
	}
	p, ok := s.progress[id]
	if !ok {
		return padron.Progress{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *sessionStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// sweep drops expired entries. Callers hold the write lock.
func (s *sessionStore) sweep() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			delete(s.progress, id)
		}
	}
}
