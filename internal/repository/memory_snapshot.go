package repository

import (
	"context"
	"sync"

	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/port"
)

// MemorySnapshot is a thread-safe in-memory snapshot slot. It backs tests
// and serves as the degraded mode when durable storage is unavailable.
type MemorySnapshot struct {
	mu    sync.RWMutex
	items []domain.LineItem
}

func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

func (s *MemorySnapshot) Load(_ context.Context) ([]domain.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemorySnapshot) Save(_ context.Context, items []domain.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]domain.LineItem, len(items))
	copy(s.items, items)
	return nil
}

var _ port.SnapshotStore = (*MemorySnapshot)(nil)
