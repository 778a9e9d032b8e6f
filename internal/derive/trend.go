package derive

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// TrendRow is one month of income and expense.
type TrendRow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Net is income minus expense.
func (r TrendRow) Net() decimal.Decimal {
	return r.Income.Sub(r.Expense)
}

// buckets groups every transaction by month key. Status is not consulted.
func buckets(txns []model.Transaction) map[string]TrendRow {
	out := make(map[string]TrendRow)
	for _, t := range txns {
		key := t.MonthKey()
		row, ok := out[key]
		if !ok {
			row = TrendRow{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
		}
		switch t.Type {
		case model.TypeIncome:
			row.Income = row.Income.Add(t.Amount)
		case model.TypeExpense:
			row.Expense = row.Expense.Add(t.Amount)
		}
		out[key] = row
	}
	return out
}

// MonthlyTrend returns one row per month that has transactions, oldest first.
func MonthlyTrend(txns []model.Transaction) []TrendRow {
	b := buckets(txns)
	rows := make([]TrendRow, 0, len(b))
	for _, row := range b {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

// TrailingTrend returns exactly n rows for the n months ending with the month
// of now, oldest first. Months without transactions have zero totals.
func TrailingTrend(txns []model.Transaction, now time.Time, n int) []TrendRow {
	b := buckets(txns)
	keys := TrailingMonthKeys(now, n)
	rows := make([]TrendRow, len(keys))
	for i, key := range keys {
		row, ok := b[key]
		if !ok {
			row = TrendRow{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
		}
		rows[i] = row
	}
	return rows
}
