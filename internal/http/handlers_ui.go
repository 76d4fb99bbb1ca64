package http

import (
	"log/slog"
	"net/http"
	"time"

	"tally/internal/core"
	"tally/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()

	// Known categories feed the form's datalist. The page still renders
	// if the store cannot be read.
	var categories []string
	if items, err := s.expenses.List(r.Context(), core.Filter{}); err != nil {
		slog.ErrorContext(r.Context(), "List categories error", log.FieldError, err)
	} else {
		seen := make(map[string]bool)
		for _, e := range items {
			if !seen[e.Category] {
				seen[e.Category] = true
				categories = append(categories, e.Category)
			}
		}
	}

	data := struct {
		Today      string
		Year       int
		Month      int
		Base       string
		Currencies []string
		Categories []string
	}{
		Today:      now.Format(core.DateLayout),
		Year:       now.Year(),
		Month:      int(now.Month()),
		Base:       s.expenses.BaseCurrency(),
		Currencies: s.expenses.Currencies(),
		Categories: categories,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type overviewRow struct {
	Name   string
	Amount string
	Width  int
}

type overviewItem struct {
	ID          string
	Day         int
	Description string
	Amount      string
	Currency    string
	Category    string
}

// handleMonthOverview renders the month summary partial for htmx swaps.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	now := time.Now()
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		slog.WarnContext(r.Context(), "Invalid month parameter",
			log.FieldYear, year,
			log.FieldMonth, month,
			"corrected_to", int(now.Month()))
		month = int(now.Month())
	}

	summary, err := s.expenses.MonthlySummary(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview error", log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">Error loading overview</div></section>`))
		return
	}
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">Total: ` + summary.Total.String() + `</div></section>`))
		return
	}

	var maxCents int64
	var maxName string
	for _, c := range summary.ByCategory {
		if c.Amount.Cents > maxCents {
			maxCents = c.Amount.Cents
			maxName = c.Name
		}
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)

	data := struct {
		Year      int
		Month     int
		MonthKey  string
		PrevYear  int
		PrevMonth int
		NextYear  int
		NextMonth int
		Currency  string
		Total     string
		Count     int
		MaxName   string
		Max       string
		Rows      []overviewRow
		Items     []overviewItem
	}{
		Year:      year,
		Month:     month,
		MonthKey:  core.FormatMonth(year, month),
		PrevYear:  prev.Year(),
		PrevMonth: int(prev.Month()),
		NextYear:  next.Year(),
		NextMonth: int(next.Month()),
		Currency:  s.expenses.BaseCurrency(),
		Total:     summary.Total.String(),
		Count:     summary.Count,
		MaxName:   maxName,
		Max:       core.Money{Cents: maxCents}.String(),
	}

	for _, c := range summary.ByCategory {
		// Bar width is relative to the largest category, clamped to 2..100
		// so small slices stay visible.
		width := 0
		if maxCents > 0 && c.Amount.Cents > 0 {
			width = int((c.Amount.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, overviewRow{Name: c.Name, Amount: c.Amount.String(), Width: width})
	}

	from, to := core.MonthRange(year, month)
	items, err := s.expenses.List(r.Context(), core.Filter{From: from, To: to})
	if err != nil {
		slog.ErrorContext(r.Context(), "List month expenses error", log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
	} else {
		for _, e := range items {
			data.Items = append(data.Items, overviewItem{
				ID:          e.ID,
				Day:         e.Date.Day(),
				Description: e.Description,
				Amount:      e.Amount.String(),
				Currency:    e.Currency,
				Category:    e.Category,
			})
		}
	}

	if err := s.templates.ExecuteTemplate(w, "month_overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", log.FieldError, err, "template", "month_overview.html", log.FieldYear, year, log.FieldMonth, month)
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">Error rendering overview</div></section>`))
		return
	}
}
