package service

import (
	"context"
	"errors"
	"testing"

	"tally/internal/core"
	"tally/internal/rates"
	"tally/internal/store"
	"tally/internal/store/memory"
)

func newTestService() *ExpenseService {
	return NewExpenseService(memory.New(), rates.NewConverter(), "usd")
}

func TestCreateNormalizesAndConverts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	saved, err := svc.Create(ctx, core.Expense{
		Amount:      core.Money{Cents: 1000},
		Currency:    " eur ",
		Category:    "  Food ",
		Date:        core.NewDate(2024, 3, 1),
		Description: " dinner out ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if saved.Currency != "EUR" {
		t.Fatalf("expected uppercased currency, got %q", saved.Currency)
	}
	if saved.Category != "Food" || saved.Description != "dinner out" {
		t.Fatalf("expected trimmed fields, got %+v", saved)
	}
	if saved.Converted.Cents != 1080 { // 10.00 EUR at 1.08
		t.Fatalf("expected 1080 converted cents, got %d", saved.Converted.Cents)
	}
}

func TestCreateDefaultsCurrencyToBase(t *testing.T) {
	svc := newTestService()
	saved, err := svc.Create(context.Background(), core.Expense{
		Amount:   core.Money{Cents: 500},
		Category: "Misc",
		Date:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.Currency != "USD" {
		t.Fatalf("expected base currency USD, got %q", saved.Currency)
	}
	if saved.Converted.Cents != 500 {
		t.Fatalf("expected converted amount unchanged, got %d", saved.Converted.Cents)
	}
}

func TestCreateUnknownCurrencyKeepsAmount(t *testing.T) {
	svc := newTestService()
	saved, err := svc.Create(context.Background(), core.Expense{
		Amount:   core.Money{Cents: 750},
		Currency: "GBP",
		Category: "Misc",
		Date:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.Converted.Cents != 750 {
		t.Fatalf("unknown pair must fall back to the raw amount, got %d", saved.Converted.Cents)
	}
}

func TestCreateRejectsInvalidRecords(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	cases := []struct {
		e    core.Expense
		want error
	}{
		{core.Expense{Amount: core.Money{Cents: -1}, Category: "c", Date: core.NewDate(2024, 3, 1)}, core.ErrInvalidAmount},
		{core.Expense{Amount: core.Money{Cents: 1}, Category: "", Date: core.NewDate(2024, 3, 1)}, core.ErrEmptyCategory},
		{core.Expense{Amount: core.Money{Cents: 1}, Category: "c"}, core.ErrInvalidDate},
		{core.Expense{Amount: core.Money{Cents: 1}, Currency: "DOLLARS", Category: "c", Date: core.NewDate(2024, 3, 1)}, core.ErrInvalidCurrency},
	}
	for i, tc := range cases {
		if _, err := svc.Create(ctx, tc.e); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}

	// Nothing must be stored after failed creates.
	all, err := svc.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d records", len(all))
	}
}

func TestCreateAllowsZeroAmount(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Create(context.Background(), core.Expense{
		Category: "Freebies",
		Date:     core.NewDate(2024, 3, 1),
	}); err != nil {
		t.Fatalf("zero amount is valid, got %v", err)
	}
}

func TestUpdateAppliesOnlyPatchedFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	saved, err := svc.Create(ctx, core.Expense{
		Amount:      core.Money{Cents: 1000},
		Currency:    "USD",
		Category:    "Food",
		Date:        core.NewDate(2024, 3, 1),
		Description: "groceries",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := core.Money{Cents: 2000}
	updated, err := svc.Update(ctx, saved.ID, ExpensePatch{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 2000 {
		t.Fatalf("expected patched amount, got %d", updated.Amount.Cents)
	}
	if updated.Category != "Food" || updated.Description != "groceries" || updated.Currency != "USD" {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}
	if updated.Date != saved.Date {
		t.Fatalf("date changed: %v", updated.Date)
	}
	if updated.Converted.Cents != 2000 {
		t.Fatalf("converted amount not recomputed, got %d", updated.Converted.Cents)
	}
}

func TestUpdateRecomputesConversionOnCurrencyChange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	saved, err := svc.Create(ctx, core.Expense{
		Amount:   core.Money{Cents: 1000},
		Category: "Food",
		Date:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	currency := "eur"
	updated, err := svc.Update(ctx, saved.ID, ExpensePatch{Currency: &currency})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Currency != "EUR" {
		t.Fatalf("expected EUR, got %q", updated.Currency)
	}
	if updated.Converted.Cents != 1080 {
		t.Fatalf("expected reconverted 1080, got %d", updated.Converted.Cents)
	}
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	saved, err := svc.Create(ctx, core.Expense{
		Amount:   core.Money{Cents: 1000},
		Category: "Food",
		Date:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := core.Money{Cents: -5}
	if _, err := svc.Update(ctx, saved.ID, ExpensePatch{Amount: &bad}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	// The stored record must be untouched.
	got, err := svc.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 1000 {
		t.Fatalf("failed update must not modify the record, got %d", got.Amount.Cents)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Update(context.Background(), "missing", ExpensePatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	saved, err := svc.Create(ctx, core.Expense{
		Amount:   core.Money{Cents: 100},
		Category: "Food",
		Date:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMonthlySummaryMixedCurrencies(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	seed := []core.Expense{
		{Amount: core.Money{Cents: 1000}, Currency: "USD", Category: "Food", Date: core.NewDate(2024, 3, 5)},
		{Amount: core.Money{Cents: 1000}, Currency: "EUR", Category: "Food", Date: core.NewDate(2024, 3, 20)},
		{Amount: core.Money{Cents: 9000}, Currency: "USD", Category: "Rent", Date: core.NewDate(2024, 4, 1)},
	}
	for _, e := range seed {
		if _, err := svc.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	summary, err := svc.MonthlySummary(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("expected 2 march records, got %d", summary.Count)
	}
	// 10.00 USD + 10.00 EUR * 1.08 = 20.80 USD
	if summary.Total.Cents != 2080 {
		t.Fatalf("expected 2080 cents total, got %d", summary.Total.Cents)
	}
	if len(summary.ByCategory) != 1 || summary.ByCategory[0].Name != "Food" {
		t.Fatalf("unexpected categories %+v", summary.ByCategory)
	}
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	svc := newTestService()
	summary, err := svc.MonthlySummary(context.Background(), 2030, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 0 || summary.Total.Cents != 0 || len(summary.ByCategory) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}
