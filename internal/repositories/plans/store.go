// Package plans persists plan overrides: partial plan definitions keyed by
// plan id, for built-in tiers an admin edited and for custom plans.
package plans

import (
	"context"
	"errors"
	"time"

	"automarket_backend/internal/models"
)

var ErrNotFound = errors.New("plan override not found")

// Entry is one stored override.
type Entry struct {
	ID       models.PlanID
	Override models.PlanOverride
}

// Store is a small key-value store of overrides. List returns entries in
// first-insertion order; Put on an existing id keeps its position.
type Store interface {
	Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error)
	Put(ctx context.Context, id models.PlanID, override models.PlanOverride) error
	Delete(ctx context.Context, id models.PlanID) (bool, error)
	List(ctx context.Context) ([]Entry, error)
}

// WithTimeout bounds every call on store by d.
func WithTimeout(store Store, d time.Duration) Store {
	if d <= 0 {
		return store
	}
	return &timeoutStore{next: store, timeout: d}
}

type timeoutStore struct {
	next    Store
	timeout time.Duration
}

func (s *timeoutStore) Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Get(ctx, id)
}

func (s *timeoutStore) Put(ctx context.Context, id models.PlanID, override models.PlanOverride) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Put(ctx, id, override)
}

func (s *timeoutStore) Delete(ctx context.Context, id models.PlanID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Delete(ctx, id)
}

func (s *timeoutStore) List(ctx context.Context) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.List(ctx)
}
