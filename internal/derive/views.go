package derive

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// UncategorizedLabel is shown for transactions whose category no longer exists.
const UncategorizedLabel = "Uncategorized"

// CategoryLabel returns the name of the category with id, or UncategorizedLabel.
func CategoryLabel(state model.AppState, id string) string {
	if c, ok := state.FindCategory(id); ok {
		return c.Name
	}
	return UncategorizedLabel
}

// BreakdownRow is the expense total of one category label.
type BreakdownRow struct {
	Name  string          `json:"name"`
	Color string          `json:"color,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseBreakdown groups expense inside p by category name, in order of first
// appearance. Missing categories fall under UncategorizedLabel; zero rows are dropped.
func ExpenseBreakdown(state model.AppState, p Period, policy SpendPolicy) []BreakdownRow {
	index := make(map[string]int)
	rows := []BreakdownRow{}
	for _, t := range state.Transactions {
		if t.Type != model.TypeExpense || !p.Contains(t.Date) || !policy.counts(t) {
			continue
		}
		name, color := UncategorizedLabel, ""
		if c, ok := state.FindCategory(t.CategoryID); ok {
			name, color = c.Name, c.Color
		}
		i, ok := index[name]
		if !ok {
			i = len(rows)
			index[name] = i
			rows = append(rows, BreakdownRow{Name: name, Color: color, Total: decimal.Zero})
		}
		rows[i].Total = rows[i].Total.Add(t.Amount)
	}

	out := rows[:0]
	for _, r := range rows {
		if r.Total.IsPositive() {
			out = append(out, r)
		}
	}
	return out
}

// sortByDateDesc orders newest first, keeping the original order for equal dates.
func sortByDateDesc(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date > txns[j].Date })
}

// RecentTransactions returns the n newest transactions.
func RecentTransactions(txns []model.Transaction, n int) []model.Transaction {
	out := append([]model.Transaction(nil), txns...)
	sortByDateDesc(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Filter narrows a transaction list. Zero fields match everything.
type Filter struct {
	Period     *Period
	Type       model.TransactionType
	Status     model.TransactionStatus
	CategoryID string
	// Search matches descriptions case-insensitively.
	Search string
}

// Matches reports whether t passes every set criterion.
func (f Filter) Matches(t model.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if f.Period != nil && !f.Period.Contains(t.Date) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// FilterTransactions returns the matching transactions, newest first.
func FilterTransactions(txns []model.Transaction, f Filter) []model.Transaction {
	out := []model.Transaction{}
	for _, t := range txns {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sortByDateDesc(out)
	return out
}

// DashboardOptions tunes Dashboard. Zero values select the defaults.
type DashboardOptions struct {
	// Threshold overrides the alert threshold from settings.
	Threshold float64
	// Recent is how many recent transactions to include.
	Recent int
	// TrendMonths is the length of the trailing trend.
	TrendMonths int
	// AlertPolicy overrides AlertPolicy.
	AlertPolicy *SpendPolicy
}

// Dashboard defaults.
const (
	DefaultRecent      = 5
	DefaultTrendMonths = 6
)

// DashboardView is the overview of the current month.
type DashboardView struct {
	Period      Period              `json:"period"`
	Month       string              `json:"month"`
	Totals      Totals              `json:"totals"`
	Balance     decimal.Decimal     `json:"balance"`
	SavingsRate float64             `json:"savingsRate"`
	Threshold   float64             `json:"threshold"`
	Alerts      []CategorySpendRow  `json:"alerts"`
	Recent      []model.Transaction `json:"recent"`
	Trend       []TrendRow          `json:"trend"`
	Goals       []GoalRow           `json:"goals"`
}

// Dashboard composes the overview for the month containing now.
func Dashboard(state model.AppState, now time.Time, opts DashboardOptions) DashboardView {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = state.Settings.Threshold()
	}
	recent := opts.Recent
	if recent <= 0 {
		recent = DefaultRecent
	}
	months := opts.TrendMonths
	if months <= 0 {
		months = DefaultTrendMonths
	}
	policy := AlertPolicy
	if opts.AlertPolicy != nil {
		policy = *opts.AlertPolicy
	}

	period := MonthPeriod(now)
	month := MonthKey(now)
	totals := PeriodTotals(state.Transactions, period)

	return DashboardView{
		Period:      period,
		Month:       month,
		Totals:      totals,
		Balance:     Balance(state.Transactions),
		SavingsRate: totals.SavingsRate(),
		Threshold:   threshold,
		Alerts:      Alerts(state, month, threshold, policy),
		Recent:      RecentTransactions(state.Transactions, recent),
		Trend:       TrailingTrend(state.Transactions, now, months),
		Goals:       GoalsReport(state.Goals),
	}
}
