package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/export"
	"github.com/Veraticus/spice-budget/internal/model"
)

// defaultTopN matches the budget vs actual chart of the dashboard.
const defaultTopN = 6

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Snapshot())
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, s.store.Snapshot()); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(s.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger(r).Error("failed to write export", "error", err)
	}
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r, "threshold", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	recent, err := intParam(r, "recent", derive.DefaultRecent)
	if err != nil {
		handleError(w, r, err)
		return
	}
	months, err := intParam(r, "months", derive.DefaultTrendMonths)
	if err != nil {
		handleError(w, r, err)
		return
	}
	policy, err := policyParam(r, derive.AlertPolicy)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view := derive.Dashboard(s.store.Snapshot(), s.now(), derive.DashboardOptions{
		Threshold:   threshold,
		Recent:      recent,
		TrendMonths: months,
		AlertPolicy: &policy,
	})
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) getCategorySpend(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	policy, err := policyParam(r, derive.BudgetViewPolicy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, derive.CategorySpend(s.store.Snapshot(), month, policy))
}

func (s *Server) getAlerts(w http.ResponseWriter, r *http.Request) {
	state := s.store.Snapshot()
	month, err := s.monthParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	threshold, err := floatParam(r, "threshold", state.Settings.Threshold())
	if err != nil {
		handleError(w, r, err)
		return
	}
	policy, err := policyParam(r, derive.AlertPolicy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, derive.Alerts(state, month, threshold, policy))
}

func (s *Server) getTrend(w http.ResponseWriter, r *http.Request) {
	txns := s.store.Snapshot().Transactions
	if r.URL.Query().Get("all") == "true" {
		writeJSON(w, r, http.StatusOK, derive.MonthlyTrend(txns))
		return
	}
	months, err := intParam(r, "months", derive.DefaultTrendMonths)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, derive.TrailingTrend(txns, s.now(), months))
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	policy, err := policyParam(r, derive.BudgetViewPolicy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, derive.BudgetPlan(s.store.Snapshot(), month, policy))
}

func (s *Server) getBudgetVsActual(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	top, err := intParam(r, "top", defaultTopN)
	if err != nil {
		handleError(w, r, err)
		return
	}
	policy, err := policyParam(r, derive.BudgetViewPolicy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, derive.BudgetVsActual(s.store.Snapshot(), month, top, policy))
}

func (s *Server) getBreakdown(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	period, err := derive.PeriodForMonthKey(month)
	if err != nil {
		handleError(w, r, badRequest("month %q", month))
		return
	}
	policy, err := policyParam(r, derive.BudgetViewPolicy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, derive.ExpenseBreakdown(s.store.Snapshot(), period, policy))
}

func (s *Server) getGoalsProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, derive.GoalsReport(s.store.Snapshot().Goals))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := derive.Filter{
		Type:       model.TransactionType(q.Get("type")),
		Status:     model.TransactionStatus(q.Get("status")),
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
	}
	if q.Get("month") != "" {
		period, err := derive.PeriodForMonthKey(q.Get("month"))
		if err != nil {
			handleError(w, r, badRequest("month %q must be YYYY-MM", q.Get("month")))
			return
		}
		filter.Period = &period
	}
	writeJSON(w, r, http.StatusOK, derive.FilterTransactions(s.store.Snapshot().Transactions, filter))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Snapshot().Categories)
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Snapshot().Goals)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Snapshot().User)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Snapshot().Settings)
}

// monthParam returns ?month=YYYY-MM, defaulting to the current month.
func (s *Server) monthParam(r *http.Request) (string, error) {
	month := r.URL.Query().Get("month")
	if month == "" {
		return derive.MonthKey(s.now()), nil
	}
	if _, err := derive.ParseMonthKey(month); err != nil {
		return "", badRequest("month %q must be YYYY-MM", month)
	}
	return month, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest("%s %q must be a non-negative integer", name, raw)
	}
	return n, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f > 100 {
		return 0, badRequest("%s %q must be a number between 0 and 100", name, raw)
	}
	return f, nil
}

// policyParam reads ?completedOnly=true|false.
func policyParam(r *http.Request, def derive.SpendPolicy) (derive.SpendPolicy, error) {
	raw := r.URL.Query().Get("completedOnly")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def, badRequest("completedOnly %q must be true or false", raw)
	}
	return derive.SpendPolicy{CompletedOnly: b}, nil
}
