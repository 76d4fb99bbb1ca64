// Package rates converts amounts between currencies using a fixed
// development rate table. Live quotes are out of scope.
package rates

import (
	"math"
	"sort"

	"tally/internal/core"
)

var mockTable = map[string]map[string]float64{
	"USD": {"EUR": 0.93, "INR": 83.0},
	"EUR": {"USD": 1.08, "INR": 89.0},
	"INR": {"USD": 0.012, "EUR": 0.011},
}

type Converter struct {
	table map[string]map[string]float64
}

// NewConverter returns a converter backed by the built-in rate table.
func NewConverter() *Converter {
	return &Converter{table: mockTable}
}

// Convert exchanges an amount between two currency codes, rounding to
// the nearest cent. Identical codes and pairs missing from the table
// return the amount unchanged.
func (c *Converter) Convert(amount core.Money, from, to string) core.Money {
	if from == to {
		return amount
	}
	rate, ok := c.table[from][to]
	if !ok {
		return amount
	}
	return core.Money{Cents: int64(math.Round(float64(amount.Cents) * rate))}
}

// Currencies lists every code the table mentions, sorted.
func (c *Converter) Currencies() []string {
	seen := make(map[string]struct{})
	for from, tos := range c.table {
		seen[from] = struct{}{}
		for to := range tos {
			seen[to] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
