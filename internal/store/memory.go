package store

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.expires[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.expires, key)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expires[key] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.expires, key)
	return nil
}
