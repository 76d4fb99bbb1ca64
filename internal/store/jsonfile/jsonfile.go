// Package jsonfile persists expenses in a single JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"tally/internal/core"
	"tally/internal/store"
)

// Store keeps the full record list in one file. Every operation reads
// the file, works on the decoded slice and writes the file back
// wholesale; the mutex serializes that cycle within the process.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open prepares a store backed by the file at path. The parent
// directory is created if needed and an existing file must parse.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{path: path}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the data file.
func (s *Store) Path() string {
	return s.path
}

// Load reads every record from the data file. A missing file is an
// empty store, not an error.
func (s *Store) Load() ([]core.Expense, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var expenses []core.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", s.path, err)
	}
	return expenses, nil
}

// Save replaces the data file contents with the given record list.
func (s *Store) Save(expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

// Add implements store.ExpenseWriter
func (s *Store) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.Load()
	if err != nil {
		return core.Expense{}, err
	}

	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	expenses = append(expenses, e)

	if err := s.Save(expenses); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"currency", e.Currency,
		"date", e.Date.String())

	return e, nil
}

// Update implements store.ExpenseEditor
func (s *Store) Update(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.Load()
	if err != nil {
		return core.Expense{}, err
	}

	for i := range expenses {
		if expenses[i].ID != id {
			continue
		}
		e.ID = id
		e.CreatedAt = expenses[i].CreatedAt
		e.UpdatedAt = time.Now().UTC()
		expenses[i] = e
		if err := s.Save(expenses); err != nil {
			return core.Expense{}, err
		}
		slog.InfoContext(ctx, "Expense updated", "id", id)
		return e, nil
	}

	return core.Expense{}, fmt.Errorf("update expense %s: %w", id, store.ErrNotFound)
}

// Delete implements store.ExpenseEditor
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.Load()
	if err != nil {
		return err
	}

	for i := range expenses {
		if expenses[i].ID != id {
			continue
		}
		expenses = append(expenses[:i], expenses[i+1:]...)
		if err := s.Save(expenses); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Expense deleted", "id", id)
		return nil
	}

	return fmt.Errorf("delete expense %s: %w", id, store.ErrNotFound)
}

// Get implements store.ExpenseReader
func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.Load()
	if err != nil {
		return core.Expense{}, err
	}
	for _, e := range expenses {
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

	expenses, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
