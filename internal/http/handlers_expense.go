package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/service"
)

// handleExpenses serves the collection endpoint: GET lists, POST creates.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleExpenseByID serves GET, PUT and DELETE on /expenses/{id}.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(strings.TrimPrefix(r.URL.Path, "/expenses/"))
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getExpense(w, r, id)
	case http.MethodPut:
		s.updateExpense(w, r, id)
	case http.MethodDelete:
		s.deleteExpense(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter core.Filter
	filter.Category = sanitizeInput(q.Get("category"))

	// month=YYYY-MM expands to a from/to range; explicit from/to win over it.
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		year, month, err := core.ParseMonth(v)
		if err != nil {
			respondExpenseError(w, r, err)
			return
		}
		filter.From, filter.To = core.MonthRange(year, month)
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			respondExpenseError(w, r, err)
			return
		}
		filter.From = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			respondExpenseError(w, r, err)
			return
		}
		filter.To = d
	}

	items, err := s.expenses.List(r.Context(), filter)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}
	if items == nil {
		items = []core.Expense{}
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		slog.WarnContext(r.Context(), "Malformed request body", log.FieldError, err, log.FieldPath, r.URL.Path)
		respondMessage(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	amountStr := p.Get("amount")
	if amountStr == "" {
		respondMessage(w, r, http.StatusUnprocessableEntity, "amount is required")
		return
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}

	dateStr := p.Get("date")
	if dateStr == "" {
		respondMessage(w, r, http.StatusUnprocessableEntity, "date is required")
		return
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}

	exp := core.Expense{
		Amount:      amount,
		Currency:    p.Get("currency"),
		Category:    p.Get("category"),
		Date:        date,
		Description: p.Get("description"),
	}

	created, err := s.expenses.Create(r.Context(), exp)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		log.FieldExpenseID, created.ID,
		log.FieldCategory, created.Category,
		"amount_cents", created.Amount.Cents,
		"currency", created.Currency,
		"date", created.Date.String())

	if isHTMX(r) {
		w.Header().Set("HX-Trigger", fmt.Sprintf(`{"form:reset": {}, "expense:created": {"year": %d, "month": %d}}`,
			created.Date.Year(), created.Date.Month()))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		msg := fmt.Sprintf("Saved: %s %s for %s",
			template.HTMLEscapeString(created.Amount.String()),
			template.HTMLEscapeString(created.Currency),
			template.HTMLEscapeString(created.Category))
		_, _ = w.Write([]byte(`<div class="success">` + msg + `</div>`))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request, id string) {
	exp, err := s.expenses.Get(r.Context(), id)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request, id string) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		slog.WarnContext(r.Context(), "Malformed request body", log.FieldError, err, log.FieldPath, r.URL.Path)
		respondMessage(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	// Only fields present in the body are touched; everything else keeps
	// its stored value.
	var patch service.ExpensePatch
	if p.Has("amount") {
		amount, err := core.ParseAmount(p.Get("amount"))
		if err != nil {
			respondExpenseError(w, r, err)
			return
		}
		patch.Amount = &amount
	}
	if p.Has("currency") {
		v := p.Get("currency")
		patch.Currency = &v
	}
	if p.Has("category") {
		v := p.Get("category")
		patch.Category = &v
	}
	if p.Has("date") {
		date, err := core.ParseDate(p.Get("date"))
		if err != nil {
			respondExpenseError(w, r, err)
			return
		}
		patch.Date = &date
	}
	if p.Has("description") {
		v := p.Get("description")
		patch.Description = &v
	}

	updated, err := s.expenses.Update(r.Context(), id, patch)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense updated",
		log.FieldExpenseID, updated.ID,
		log.FieldCategory, updated.Category,
		"amount_cents", updated.Amount.Cents)

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.expenses.Delete(r.Context(), id); err != nil {
		respondExpenseError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense deleted", log.FieldExpenseID, id)

	if isHTMX(r) {
		now := time.Now()
		w.Header().Set("HX-Trigger", fmt.Sprintf(`{"expense:deleted": {"year": %d, "month": %d}}`,
			now.Year(), int(now.Month())))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(""))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleMonthSummary reports per-category totals for one month. The month
// query parameter is YYYY-MM; it defaults to the current month.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		y, m, err := core.ParseMonth(v)
		if err != nil {
			respondExpenseError(w, r, err)
			return
		}
		year, month = y, m
	}

	summary, err := s.expenses.MonthlySummary(r.Context(), year, month)
	if err != nil {
		respondExpenseError(w, r, err)
		return
	}

	byCategory := make(map[string]int64, len(summary.ByCategory))
	for _, c := range summary.ByCategory {
		byCategory[c.Name] = c.Amount.Cents
	}

	writeJSON(w, http.StatusOK, struct {
		Month      string           `json:"month"`
		Currency   string           `json:"currency"`
		TotalCents int64            `json:"total_cents"`
		Count      int              `json:"count"`
		ByCategory map[string]int64 `json:"by_category"`
	}{
		Month:      summary.MonthKey(),
		Currency:   s.expenses.BaseCurrency(),
		TotalCents: summary.Total.Cents,
		Count:      summary.Count,
		ByCategory: byCategory,
	})
}
