// Package memory holds expenses in process memory. It backs tests and
// the ephemeral backend mode; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tally/internal/core"
	"tally/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

func New() *Store {
	return &Store{}
}

// Add implements store.ExpenseWriter
func (s *Store) Add(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.items = append(s.items, e)
	return e, nil
}

// Update implements store.ExpenseEditor
func (s *Store) Update(_ context.Context, id string, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		e.ID = id
		e.CreatedAt = s.items[i].CreatedAt
		e.UpdatedAt = time.Now().UTC()
		s.items[i] = e
		return e, nil
	}
	return core.Expense{}, fmt.Errorf("update expense %s: %w", id, store.ErrNotFound)
}

// Delete implements store.ExpenseEditor
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return nil
	}
	return fmt.Errorf("delete expense %s: %w", id, store.ErrNotFound)
}

// Get implements store.ExpenseReader
func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("get expense %s: %w", id, store.ErrNotFound)
}

// List implements store.ExpenseReader
func (s *Store) List(_ context.Context, f core.Filter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
