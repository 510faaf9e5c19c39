package store

import (
	"context"
	"sync"

	"go-atm/models"
)

// MemoryStore keeps the ledger in memory. It serves tests and the
// "memory" backend; contents do not survive a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	customers []models.Customer
}

// NewMemoryStore returns a store pre-loaded with the sample dataset.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{customers: seedCustomers()}
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

func (s *MemoryStore) SaveAll(ctx context.Context, customers []models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make([]models.Customer, len(customers))
	copy(s.customers, customers)
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.customers, id)
}
