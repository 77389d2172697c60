package plans

import (
	"context"
	"sync"

	"automarket_backend/internal/models"
)

// MemoryStore keeps overrides in process memory. It is not shared between
// server instances; use it for tests and single-process deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[models.PlanID]models.PlanOverride
	order []models.PlanID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[models.PlanID]models.PlanOverride)}
}

func (s *MemoryStore) Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error) {
	if err := ctx.Err(); err != nil {
		return models.PlanOverride{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.items[id]
	if !ok {
		return models.PlanOverride{}, ErrNotFound
	}
	return o, nil
}

func (s *MemoryStore) Put(ctx context.Context, id models.PlanID, override models.PlanOverride) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = override
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id models.PlanID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, Entry{ID: id, Override: s.items[id]})
	}
	return entries, nil
}
