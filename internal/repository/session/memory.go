package session

import (
	"context"
	"sync"
	"time"
)

type (
	entry struct {
		username string
		expires  time.Time // zero value: no expiry
	}

	// MemoryStore is the default in-process session store. Expired entries
	// are dropped lazily on lookup; there is no sweeper goroutine.
	MemoryStore struct {
		mu       sync.RWMutex
		sessions map[string]entry
	}
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
	}
}

func (s *MemoryStore) Put(_ context.Context, token, username string, ttl time.Duration) error {
	e := entry{username: username}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.sessions[token] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", ErrNotFound
	}
	return e.username, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
