package repomanager

import (
	"context"
	"sync"

	"github.com/themisai/themis/internal/server/repositories/memory"
)

// MemoryRepositoryManager keeps everything in process memory. WithinTx only
// serializes units of work; it cannot roll back.
type MemoryRepositoryManager struct {
	mu    sync.Mutex
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Repositories() Repositories {
	return Repositories{
		Persons:   m.store.Persons(),
		Sessions:  m.store.Sessions(),
		Messages:  m.store.Messages(),
		Documents: m.store.Documents(),
	}
}

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.Repositories())
}

func (m *MemoryRepositoryManager) Close() error { return nil }
