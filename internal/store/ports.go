// Package store defines the persistence ports for expense records.
package store

import (
	"context"
	"errors"

	"tally/internal/core"
)

// ErrNotFound reports that no record carries the requested id.
var ErrNotFound = errors.New("expense not found")

// Ports for outbound persistence adapters.
type (
	ExpenseWriter interface {
		// Add persists a new record, assigning it a fresh id and
		// creation timestamps, and returns the stored form.
		Add(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	ExpenseEditor interface {
		// Update replaces the record with the given id, keeping its id
		// and creation timestamp. Returns ErrNotFound for unknown ids.
		Update(ctx context.Context, id string, e core.Expense) (core.Expense, error)
		// Delete removes the record with the given id.
		// Returns ErrNotFound for unknown ids.
		Delete(ctx context.Context, id string) error
	}

	ExpenseReader interface {
		// Get returns the record with the given id.
		// Returns ErrNotFound for unknown ids.
		Get(ctx context.Context, id string) (core.Expense, error)
		// List returns the records matching the filter, oldest first in
		// insertion order.
		List(ctx context.Context, f core.Filter) ([]core.Expense, error)
	}

	// Store is the full persistence surface the application runs on.
	Store interface {
		ExpenseWriter
		ExpenseEditor
		ExpenseReader
	}
)
