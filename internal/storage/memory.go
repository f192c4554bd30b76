package storage

import (
	"context"
	"sync"

	"github.com/newtown/billsplitter/internal/models"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store for tests and for running without
// persistence.
type MemoryStore struct {
	mu      sync.Mutex
	members []models.Member
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadMembers returns a copy of the saved member list.
func (s *MemoryStore) LoadMembers(_ context.Context) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Member, len(s.members))
	copy(out, s.members)
	return out, nil
}

// SaveMembers replaces the saved member list.
func (s *MemoryStore) SaveMembers(_ context.Context, members []models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make([]models.Member, len(members))
	copy(s.members, members)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
