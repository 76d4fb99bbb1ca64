package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthSummary is a compact summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Total      Money
	Count      int
	ByCategory []CategoryAmount
}

// Summarize aggregates the expenses falling in the given month. Amounts
// are summed from each record's converted value, so mixed currencies
// add up in the base currency. Categories without records that month do
// not appear. The result is ordered by amount, largest first, with ties
// broken by name.
func Summarize(expenses []Expense, year, month int) MonthSummary {
	s := MonthSummary{Year: year, Month: month}
	byCategory := make(map[string]int64)
	for _, e := range expenses {
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		s.Count++
		s.Total.Cents += e.Converted.Cents
		byCategory[e.Category] += e.Converted.Cents
	}
	s.ByCategory = make([]CategoryAmount, 0, len(byCategory))
	for name, cents := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})
	return s
}

// MonthKey renders the summarized month in MonthLayout form.
func (s MonthSummary) MonthKey() string {
	return FormatMonth(s.Year, s.Month)
}
