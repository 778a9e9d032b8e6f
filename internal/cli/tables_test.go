package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/idgen"
	"github.com/Veraticus/spice-budget/internal/model"
	"github.com/Veraticus/spice-budget/internal/seed"
)

var now = time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)

func TestMoney(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   decimal.Decimal
		want     string
	}{
		{"grouping", "BRL", decimal.RequireFromString("1234.5"), "BRL 1,234.50"},
		{"no currency", "", decimal.NewFromInt(12), "12.00"},
		{"rounding", "USD", decimal.RequireFromString("0.005"), "USD 0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.currency, tt.amount))
		})
	}

	assert.Equal(t, "BRL -1,800.00", SignedMoney("BRL", decimal.NewFromInt(-1800)))
	assert.Equal(t, "+5.00", SignedMoney("", decimal.NewFromInt(5)))
	assert.Equal(t, "85%", Percent(85.2))
}

func TestTransactionsTable(t *testing.T) {
	state := seed.DefaultSnapshot(now, idgen.NewSequence("t"))
	state.Transactions = append(state.Transactions, model.Transaction{
		ID: "x1", Date: "2024-03-18", Description: "Gift", CategoryID: "gone",
		Type: model.TypeExpense, Status: model.StatusPending, Amount: decimal.NewFromInt(40),
	})

	var buf bytes.Buffer
	TransactionsTable(&buf, state, derive.RecentTransactions(state.Transactions, 2))

	out := buf.String()
	assert.Contains(t, out, "Description")
	assert.Contains(t, out, "Gift")
	assert.Contains(t, out, derive.UncategorizedLabel)
	assert.Contains(t, out, "BRL -40.00")
	assert.Contains(t, out, "Weekly groceries")
	assert.NotContains(t, out, "Monthly salary")
}

func TestCategorySpendAndPlanTables(t *testing.T) {
	state := seed.DefaultSnapshot(now, idgen.NewSequence("t"))
	plan := derive.BudgetPlan(state, "2024-03", derive.BudgetViewPolicy)

	var buf bytes.Buffer
	PlanTable(&buf, state.User.Currency, plan)

	out := buf.String()
	assert.Contains(t, out, "Plan 2024-03")
	assert.Contains(t, out, "BRL 4,300.00")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, string(derive.LevelWarning))
}

func TestReportTables(t *testing.T) {
	state := seed.DefaultSnapshot(now, idgen.NewSequence("t"))
	currency := state.User.Currency

	var buf bytes.Buffer
	TrendTable(&buf, currency, derive.TrailingTrend(state.Transactions, now, 4))
	assert.Contains(t, buf.String(), "2023-12")
	assert.Contains(t, buf.String(), "BRL +2,750.00")

	buf.Reset()
	period := derive.MonthPeriod(now)
	BreakdownTable(&buf, currency, derive.ExpenseBreakdown(state, period, derive.BudgetViewPolicy))
	assert.Contains(t, buf.String(), "Groceries")

	buf.Reset()
	goals := derive.GoalsReport(append(state.Goals, model.Goal{ID: "2", Name: "Car", TargetValue: decimal.NewFromInt(100)}))
	GoalsTable(&buf, currency, goals)
	assert.Contains(t, buf.String(), "Emergency fund")
	assert.Contains(t, buf.String(), "33%")
	assert.Contains(t, buf.String(), "n/a")

	buf.Reset()
	CategoriesTable(&buf, currency, state.Categories)
	assert.Contains(t, buf.String(), "Freelance")
	assert.Contains(t, buf.String(), "BRL 2,000.00")
}

func TestDashboardSummary(t *testing.T) {
	state := seed.DefaultSnapshot(now, idgen.NewSequence("t"))
	view := derive.Dashboard(state, now, derive.DashboardOptions{})

	var buf bytes.Buffer
	require.NoError(t, DashboardSummary(&buf, state, view))
	out := buf.String()
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "BRL 8,250.00")
	assert.Contains(t, out, "Rent at 90% of its limit")
	assert.Contains(t, out, "Recent transactions")

	state.Settings.AlertThreshold = 95
	view = derive.Dashboard(state, now, derive.DashboardOptions{})
	buf.Reset()
	require.NoError(t, DashboardSummary(&buf, state, view))
	assert.Contains(t, buf.String(), "No category above 95% of its limit")
}
