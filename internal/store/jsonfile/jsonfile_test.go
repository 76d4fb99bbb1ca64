package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tally/internal/core"
	"tally/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "expenses.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func sample(date core.Date, category string, cents int64) core.Expense {
	return core.Expense{
		Amount:      core.Money{Cents: cents},
		Currency:    "USD",
		Converted:   core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Description: "sample",
	}
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestStore(t)
	expenses, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected empty store, got %d records", len(expenses))
	}
}

func TestAddAssignsIDAndPersists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Add(ctx, sample(core.NewDate(2024, 3, 1), "Food", 1000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	second, err := s.Add(ctx, sample(core.NewDate(2024, 3, 2), "Travel", 2000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("ids must be unique, both %q", first.ID)
	}

	// A fresh handle over the same file sees both records in insertion order.
	reopened, err := Open(s.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	expenses, err := reopened.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 records, got %d", len(expenses))
	}
	if expenses[0].ID != first.ID || expenses[1].ID != second.ID {
		t.Fatalf("insertion order lost: %q then %q", expenses[0].ID, expenses[1].ID)
	}
}

func TestGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, sample(core.NewDate(2024, 3, 1), "Food", 1000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := s.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "Food" || got.Amount.Cents != 1000 {
		t.Fatalf("unexpected record %+v", got)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, sample(core.NewDate(2024, 3, 1), "Food", 1000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	changed := added
	changed.Category = "Groceries"
	changed.Amount = core.Money{Cents: 1250}
	changed.Converted = core.Money{Cents: 1250}

	updated, err := s.Update(ctx, added.ID, changed)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != added.ID {
		t.Fatalf("id changed from %q to %q", added.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Fatal("update must keep the creation timestamp")
	}
	if updated.UpdatedAt.Before(added.UpdatedAt) {
		t.Fatal("update must not rewind the update timestamp")
	}

	got, err := s.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "Groceries" || got.Amount.Cents != 1250 {
		t.Fatalf("update not persisted: %+v", got)
	}

	if _, err := s.Update(ctx, "missing", changed); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, sample(core.NewDate(2024, 3, 1), "Food", 1000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, added.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete expected ErrNotFound, got %v", err)
	}
	expenses, err := s.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected empty store, got %d records", len(expenses))
	}
}

func TestListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []core.Expense{
		sample(core.NewDate(2024, 3, 1), "Food", 1000),
		sample(core.NewDate(2024, 3, 15), "Travel", 2000),
		sample(core.NewDate(2024, 4, 2), "Food", 3000),
	}
	for _, e := range seed {
		if _, err := s.Add(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	byCategory, err := s.List(ctx, core.Filter{Category: "food"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("expected 2 food records, got %d", len(byCategory))
	}

	from, to := core.MonthRange(2024, 3)
	march, err := s.List(ctx, core.Filter{From: from, To: to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("expected 2 march records, got %d", len(march))
	}

	both, err := s.List(ctx, core.Filter{Category: "Food", From: from, To: to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(both) != 1 || both[0].Amount.Cents != 1000 {
		t.Fatalf("expected the march food record, got %+v", both)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, cat := range []string{"Food", "Travel", "Rent"} {
		if _, err := s.Add(ctx, sample(core.NewDate(2024, 3, i+1), cat, int64(1000*(i+1)))); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	expenses, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Save(expenses); err != nil {
		t.Fatalf("save: %v", err)
	}
	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("save(load()) must reproduce the file byte for byte")
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	if err := os.WriteFile(path, []byte("{ not json"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected parse error for corrupt file")
	}
}

func TestOpsSurfaceCorruptFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Add(ctx, sample(core.NewDate(2024, 3, 1), "Food", 1000)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte("[{"), 0644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}
	if _, err := s.List(ctx, core.Filter{}); err == nil {
		t.Fatal("expected error listing over corrupt file")
	}
	if _, err := s.Add(ctx, sample(core.NewDate(2024, 3, 2), "Food", 1)); err == nil {
		t.Fatal("expected error adding over corrupt file")
	}
}
