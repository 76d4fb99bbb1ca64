// Package service wires the expense domain to its persistence port.
package service

import (
	"context"
	"fmt"
	"strings"

	"tally/internal/core"
	"tally/internal/rates"
	"tally/internal/store"
)

// ExpenseService orchestrates validation, currency conversion and persistence
type ExpenseService struct {
	store     store.Store
	converter *rates.Converter
	base      string
}

func NewExpenseService(st store.Store, converter *rates.Converter, baseCurrency string) *ExpenseService {
	return &ExpenseService{
		store:     st,
		converter: converter,
		base:      strings.ToUpper(strings.TrimSpace(baseCurrency)),
	}
}

// BaseCurrency returns the currency summaries are reported in.
func (s *ExpenseService) BaseCurrency() string {
	return s.base
}

// Currencies lists the codes the converter knows about.
func (s *ExpenseService) Currencies() []string {
	return s.converter.Currencies()
}

// ExpensePatch carries the fields of an edit. Nil fields keep their
// stored values.
type ExpensePatch struct {
	Amount      *core.Money
	Currency    *string
	Category    *string
	Date        *core.Date
	Description *string
}

// Create validates a new expense, fills derived fields and persists it.
// An empty currency falls back to the base currency.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = s.normalize(e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.Add(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	return saved, nil
}

// Update applies a patch to a stored expense. The merged record is
// validated and its converted amount recomputed before it is written
// back.
func (s *ExpenseService) Update(ctx context.Context, id string, p ExpensePatch) (core.Expense, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("load expense: %w", err)
	}

	if p.Amount != nil {
		current.Amount = *p.Amount
	}
	if p.Currency != nil {
		current.Currency = *p.Currency
	}
	if p.Category != nil {
		current.Category = *p.Category
	}
	if p.Date != nil {
		current.Date = *p.Date
	}
	if p.Description != nil {
		current.Description = *p.Description
	}

	current = s.normalize(current)
	if err := current.Validate(); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.store.Update(ctx, id, current)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

// Delete removes a stored expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// Get returns a single stored expense.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("load expense: %w", err)
	}
	return e, nil
}

// List returns the stored expenses matching the filter, oldest first.
func (s *ExpenseService) List(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	expenses, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// MonthlySummary aggregates one month of spending in the base currency.
func (s *ExpenseService) MonthlySummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	from, to := core.MonthRange(year, month)
	expenses, err := s.store.List(ctx, core.Filter{From: from, To: to})
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("list expenses: %w", err)
	}
	return core.Summarize(expenses, year, month), nil
}

// normalize trims free-text fields, applies the currency fallback and
// recomputes the converted amount.
func (s *ExpenseService) normalize(e core.Expense) core.Expense {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	if e.Currency == "" {
		e.Currency = s.base
	}
	e.Converted = s.converter.Convert(e.Amount, e.Currency, s.base)
	return e
}
