package derive

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// Level classifies a utilization percentage.
type Level string

// Utilization levels, from least to most severe.
const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelExceeded Level = "exceeded"
)

// Levels start at these utilization percentages.
const (
	WarningUtilization  = 80
	ExceededUtilization = 100
)

// Utilization returns spend as a percentage of limit, or 0 when there is no positive limit.
func Utilization(spend, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	return spend.Div(limit).Mul(hundred).InexactFloat64()
}

// LevelFor classifies a utilization percentage.
func LevelFor(utilization float64) Level {
	switch {
	case utilization >= ExceededUtilization:
		return LevelExceeded
	case utilization >= WarningUtilization:
		return LevelWarning
	default:
		return LevelOK
	}
}

// SpendPolicy selects which transactions count toward category spend.
type SpendPolicy struct {
	// CompletedOnly excludes pending transactions.
	CompletedOnly bool
}

var (
	// BudgetViewPolicy counts pending spend so planned purchases show up in budget views.
	BudgetViewPolicy = SpendPolicy{CompletedOnly: false}
	// AlertPolicy counts only settled spend when raising alerts.
	AlertPolicy = SpendPolicy{CompletedOnly: true}
)

func (p SpendPolicy) counts(t model.Transaction) bool {
	return !p.CompletedOnly || t.IsCompleted()
}

// CategorySpendRow is the month's spend for one expense category.
type CategorySpendRow struct {
	Category    model.Category  `json:"category"`
	Level       Level           `json:"level"`
	Spend       decimal.Decimal `json:"spend"`
	Limit       decimal.Decimal `json:"limit"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization float64         `json:"utilization"`
}

// CategorySpend returns one row per expense category, in category order, with
// the spend of expense transactions whose month bucket is monthKey.
func CategorySpend(state model.AppState, monthKey string, policy SpendPolicy) []CategorySpendRow {
	spend := make(map[string]decimal.Decimal)
	for _, t := range state.Transactions {
		if t.Type != model.TypeExpense || t.MonthKey() != monthKey || !policy.counts(t) {
			continue
		}
		spend[t.CategoryID] = spend[t.CategoryID].Add(t.Amount)
	}

	rows := make([]CategorySpendRow, 0, len(state.Categories))
	for _, c := range state.Categories {
		if !c.IsExpense() {
			continue
		}
		s := spend[c.ID]
		limit := c.Limit()
		u := Utilization(s, limit)
		rows = append(rows, CategorySpendRow{
			Category:    c,
			Spend:       s,
			Limit:       limit,
			Remaining:   limit.Sub(s),
			Utilization: u,
			Level:       LevelFor(u),
		})
	}
	return rows
}

// Alerts returns the rows of limited categories whose utilization reaches threshold.
// Category order is preserved.
func Alerts(state model.AppState, monthKey string, threshold float64, policy SpendPolicy) []CategorySpendRow {
	alerts := []CategorySpendRow{}
	for _, row := range CategorySpend(state, monthKey, policy) {
		if row.Category.HasLimit() && row.Utilization >= threshold {
			alerts = append(alerts, row)
		}
	}
	return alerts
}

// Plan compares the planned month against what has been spent so far.
type Plan struct {
	Month string `json:"month"`
	// PlannedIncome is the base salary, independent of recorded income.
	PlannedIncome decimal.Decimal `json:"plannedIncome"`
	// PlannedExpense sums the limits of active expense categories.
	PlannedExpense decimal.Decimal `json:"plannedExpense"`
	// ProjectedBalance is PlannedIncome minus PlannedExpense.
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
	// ActualExpense sums the month's spend across expense categories.
	ActualExpense decimal.Decimal `json:"actualExpense"`
	// CurrentProjection is PlannedIncome minus ActualExpense.
	CurrentProjection decimal.Decimal    `json:"currentProjection"`
	Categories        []CategorySpendRow `json:"categories"`
}

// BudgetPlan builds the monthly plan for monthKey.
func BudgetPlan(state model.AppState, monthKey string, policy SpendPolicy) Plan {
	rows := CategorySpend(state, monthKey, policy)

	planned := decimal.Zero
	for _, c := range state.Categories {
		if c.IsExpense() && c.IsActive() {
			planned = planned.Add(c.Limit())
		}
	}
	actual := decimal.Zero
	for _, row := range rows {
		actual = actual.Add(row.Spend)
	}

	income := state.User.BaseSalary
	return Plan{
		Month:             monthKey,
		PlannedIncome:     income,
		PlannedExpense:    planned,
		ProjectedBalance:  income.Sub(planned),
		ActualExpense:     actual,
		CurrentProjection: income.Sub(actual),
		Categories:        rows,
	}
}

// BudgetVsActualRow pairs a category's limit with its spend.
type BudgetVsActualRow struct {
	Name    string          `json:"name"`
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
}

// BudgetVsActual returns limited expense categories sorted by limit, largest first,
// truncated to topN rows when topN is positive.
func BudgetVsActual(state model.AppState, monthKey string, topN int, policy SpendPolicy) []BudgetVsActualRow {
	rows := []BudgetVsActualRow{}
	for _, r := range CategorySpend(state, monthKey, policy) {
		if !r.Category.HasLimit() {
			continue
		}
		rows = append(rows, BudgetVsActualRow{Name: r.Category.Name, Planned: r.Limit, Actual: r.Spend})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Planned.GreaterThan(rows[j].Planned)
	})
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}
