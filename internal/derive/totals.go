package derive

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Balance is the lifetime running balance: completed income minus completed
// expense, with no date restriction.
func Balance(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.IsCompleted() {
			total = total.Add(t.SignedAmount())
		}
	}
	return total
}

// Totals holds completed income and expense over a period.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// SavingsRate is the share of income left after expenses, as a percentage.
func (t Totals) SavingsRate() float64 {
	return SavingsRate(t.Income, t.Expense)
}

// PeriodTotals sums completed transactions dated inside p.
func PeriodTotals(txns []model.Transaction, p Period) Totals {
	out := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txns {
		if !t.IsCompleted() || !p.Contains(t.Date) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			out.Income = out.Income.Add(t.Amount)
		case model.TypeExpense:
			out.Expense = out.Expense.Add(t.Amount)
		}
	}
	return out
}

// PeriodIncome sums completed income dated inside p.
func PeriodIncome(txns []model.Transaction, p Period) decimal.Decimal {
	return PeriodTotals(txns, p).Income
}

// PeriodExpense sums completed expense dated inside p.
func PeriodExpense(txns []model.Transaction, p Period) decimal.Decimal {
	return PeriodTotals(txns, p).Expense
}

// SavingsRate returns (income - expense) / income * 100, or 0 when income is not positive.
func SavingsRate(income, expense decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return income.Sub(expense).Div(income).Mul(hundred).InexactFloat64()
}
