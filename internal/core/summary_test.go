package core

import "testing"

func expense(date Date, category string, convertedCents int64) Expense {
	return Expense{
		Amount:    Money{Cents: convertedCents},
		Currency:  "USD",
		Converted: Money{Cents: convertedCents},
		Category:  category,
		Date:      date,
	}
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{
		expense(NewDate(2024, 3, 1), "Food", 1000),
		expense(NewDate(2024, 3, 14), "Food", 500),
		expense(NewDate(2024, 3, 31), "Travel", 2500),
		expense(NewDate(2024, 4, 1), "Food", 9999),  // next month
		expense(NewDate(2023, 3, 15), "Food", 9999), // same month, other year
	}

	s := Summarize(expenses, 2024, 3)
	if s.Year != 2024 || s.Month != 3 {
		t.Fatalf("unexpected month %d-%d", s.Year, s.Month)
	}
	if s.Count != 3 {
		t.Fatalf("expected 3 records, got %d", s.Count)
	}
	if s.Total.Cents != 4000 {
		t.Fatalf("expected total 4000, got %d", s.Total.Cents)
	}
	if len(s.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(s.ByCategory))
	}
	if s.ByCategory[0].Name != "Travel" || s.ByCategory[0].Amount.Cents != 2500 {
		t.Fatalf("expected Travel 2500 first, got %+v", s.ByCategory[0])
	}
	if s.ByCategory[1].Name != "Food" || s.ByCategory[1].Amount.Cents != 1500 {
		t.Fatalf("expected Food 1500 second, got %+v", s.ByCategory[1])
	}
	if s.MonthKey() != "2024-03" {
		t.Fatalf("unexpected month key %q", s.MonthKey())
	}
}

func TestSummarizeEmptyMonth(t *testing.T) {
	expenses := []Expense{
		expense(NewDate(2024, 3, 1), "Food", 1000),
	}
	s := Summarize(expenses, 2024, 5)
	if s.Count != 0 || s.Total.Cents != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
	if len(s.ByCategory) != 0 {
		t.Fatalf("expected no categories, got %+v", s.ByCategory)
	}
}

func TestSummarizeTieOrder(t *testing.T) {
	expenses := []Expense{
		expense(NewDate(2024, 3, 2), "Zoo", 700),
		expense(NewDate(2024, 3, 3), "Art", 700),
	}
	s := Summarize(expenses, 2024, 3)
	if s.ByCategory[0].Name != "Art" || s.ByCategory[1].Name != "Zoo" {
		t.Fatalf("ties must order by name, got %+v", s.ByCategory)
	}
}

func TestSummarizeUsesConvertedAmounts(t *testing.T) {
	e := Expense{
		Amount:    Money{Cents: 1000}, // 10.00 EUR
		Currency:  "EUR",
		Converted: Money{Cents: 1080}, // 10.80 USD
		Category:  "Food",
		Date:      NewDate(2024, 3, 10),
	}
	s := Summarize([]Expense{e}, 2024, 3)
	if s.Total.Cents != 1080 {
		t.Fatalf("expected converted total 1080, got %d", s.Total.Cents)
	}
}
