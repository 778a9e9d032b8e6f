package sheets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

// DefaultTrendMonths is the length of the trend section.
const DefaultTrendMonths = 6

// TransactionRow is one line of the Transaction Details section.
type TransactionRow struct {
	Date        string
	Description string
	Category    string
	Type        model.TransactionType
	Status      model.TransactionStatus
	Amount      decimal.Decimal
}

// Report holds everything written to the spreadsheet for one month.
type Report struct {
	GeneratedAt  time.Time
	Month        string
	Currency     string
	Period       derive.Period
	Totals       derive.Totals
	Balance      decimal.Decimal
	SavingsRate  float64
	Plan         derive.Plan
	Breakdown    []derive.BreakdownRow
	Trend        []derive.TrendRow
	Goals        []derive.GoalRow
	Transactions []TransactionRow
}

// BuildReport derives the report for the month containing now.
func BuildReport(state model.AppState, now time.Time, trendMonths int) Report {
	if trendMonths <= 0 {
		trendMonths = DefaultTrendMonths
	}
	period := derive.MonthPeriod(now)
	month := derive.MonthKey(now)
	totals := derive.PeriodTotals(state.Transactions, period)

	txns := derive.FilterTransactions(state.Transactions, derive.Filter{Period: &period})
	rows := make([]TransactionRow, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, TransactionRow{
			Date:        t.Date,
			Description: t.Description,
			Category:    derive.CategoryLabel(state, t.CategoryID),
			Type:        t.Type,
			Status:      t.Status,
			Amount:      t.Amount,
		})
	}

	return Report{
		GeneratedAt:  now,
		Month:        month,
		Currency:     state.User.Currency,
		Period:       period,
		Totals:       totals,
		Balance:      derive.Balance(state.Transactions),
		SavingsRate:  totals.SavingsRate(),
		Plan:         derive.BudgetPlan(state, month, derive.BudgetViewPolicy),
		Breakdown:    derive.ExpenseBreakdown(state, period, derive.BudgetViewPolicy),
		Trend:        derive.TrailingTrend(state.Transactions, now, trendMonths),
		Goals:        derive.GoalsReport(state.Goals),
		Transactions: rows,
	}
}
