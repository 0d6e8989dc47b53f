package resettokens

import (
	"context"
	"sync"
	"time"

	"github.com/themisai/themis/internal/common"
)

type entry struct {
	email   string
	expires time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, hash, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for h, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, h)
		}
	}
	s.entries[hash] = entry{email: email, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, hash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[hash]
	if !ok {
		return "", common.ErrorNotFound
	}
	delete(s.entries, hash)
	if !s.now().Before(e.expires) {
		return "", common.ErrorNotFound
	}
	return e.email, nil
}
