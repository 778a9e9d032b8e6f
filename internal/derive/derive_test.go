package derive

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-budget/internal/model"
)

var now = time.Date(2024, time.March, 20, 9, 30, 0, 0, time.UTC)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func limit(v float64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func txn(id, date, category string, typ model.TransactionType, status model.TransactionStatus, amount float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        date,
		Description: id,
		CategoryID:  category,
		Type:        typ,
		Status:      status,
		Amount:      dec(amount),
	}
}

func TestBalance_OrderAndPendingInvariant(t *testing.T) {
	txns := []model.Transaction{
		txn("a", "2024-01-05", "1", model.TypeIncome, model.StatusCompleted, 5000),
		txn("b", "2024-01-10", "3", model.TypeExpense, model.StatusCompleted, 1800),
		txn("c", "2024-02-05", "1", model.TypeIncome, model.StatusCompleted, 250.75),
		txn("d", "2024-02-15", "4", model.TypeExpense, model.StatusCompleted, 450.25),
	}
	want := Balance(txns)
	assert.True(t, want.Equal(dec(3000.5)), "balance = %s", want)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := append([]model.Transaction(nil), txns...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.True(t, Balance(shuffled).Equal(want))
	}

	withPending := append(append([]model.Transaction(nil), txns...),
		txn("p", "2024-02-20", "4", model.TypeExpense, model.StatusPending, 999999),
		txn("q", "2024-02-21", "1", model.TypeIncome, model.StatusPending, 12),
	)
	assert.True(t, Balance(withPending).Equal(want))
	assert.True(t, Balance(nil).IsZero())
}

func TestPeriodTotals_SavingsRateScenario(t *testing.T) {
	p := MonthPeriod(now)
	txns := []model.Transaction{
		txn("a", "2024-03-01", "1", model.TypeIncome, model.StatusCompleted, 5000),
		txn("b", "2024-03-31", "3", model.TypeExpense, model.StatusCompleted, 1800),
		txn("c", "2024-03-15", "4", model.TypeExpense, model.StatusPending, 999999),
		txn("d", "2024-02-29", "4", model.TypeExpense, model.StatusCompleted, 70),
		txn("e", "2024-04-01", "1", model.TypeIncome, model.StatusCompleted, 10),
	}

	totals := PeriodTotals(txns, p)
	assert.True(t, totals.Income.Equal(dec(5000)))
	assert.True(t, totals.Expense.Equal(dec(1800)))
	assert.True(t, PeriodIncome(txns, p).Equal(dec(5000)))
	assert.True(t, PeriodExpense(txns, p).Equal(dec(1800)))
	assert.Equal(t, 64.0, math.Round(totals.SavingsRate()))
	assert.True(t, totals.Net().Equal(dec(3200)))
}

func TestRatioGuards(t *testing.T) {
	for _, spend := range []float64{0, 1, 850, 1e9} {
		assert.Zero(t, Utilization(dec(spend), decimal.Zero))
		assert.Zero(t, Utilization(dec(spend), dec(-5)))
	}
	var absent model.Category
	assert.Zero(t, Utilization(dec(10), absent.Limit()))

	for _, expense := range []float64{0, 10, 1e6} {
		assert.Zero(t, SavingsRate(decimal.Zero, dec(expense)))
	}

	assert.Zero(t, GoalProgress(dec(500), decimal.Zero))
	assert.Zero(t, GoalProgress(decimal.Zero, decimal.Zero))
	assert.Equal(t, 100.0, GoalProgress(dec(20000), dec(15000)))
	assert.InDelta(t, 33.333, GoalProgress(dec(5000), dec(15000)), 0.001)

	for _, v := range []float64{
		Utilization(dec(1), dec(3)),
		SavingsRate(dec(3), dec(10)),
		GoalProgress(dec(1), dec(7)),
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		want        Level
		utilization float64
	}{
		{LevelOK, 0},
		{LevelOK, 79.99},
		{LevelWarning, 80},
		{LevelWarning, 99.9},
		{LevelExceeded, 100},
		{LevelExceeded, 250},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.utilization), "utilization %v", tt.utilization)
	}
}

func TestCategorySpend_UtilizationScenario(t *testing.T) {
	state := model.AppState{
		Categories: []model.Category{{ID: "c1", Name: "Rent", Type: model.TypeExpense, Status: model.CategoryActive, MonthlyLimit: limit(1000)}},
		Transactions: []model.Transaction{
			txn("t1", "2024-03-05", "c1", model.TypeExpense, model.StatusCompleted, 850),
		},
	}

	rows := CategorySpend(state, "2024-03", BudgetViewPolicy)
	require.Len(t, rows, 1)
	assert.Equal(t, 85.0, rows[0].Utilization)
	assert.Equal(t, LevelWarning, rows[0].Level)
	assert.True(t, rows[0].Remaining.Equal(dec(150)))

	at80 := Alerts(state, "2024-03", 80, AlertPolicy)
	require.Len(t, at80, 1)
	assert.Equal(t, "c1", at80[0].Category.ID)

	assert.Empty(t, Alerts(state, "2024-03", 90, AlertPolicy))
}

func TestCategorySpend_Policies(t *testing.T) {
	state := model.AppState{
		Categories: []model.Category{
			{ID: "inc", Name: "Salary", Type: model.TypeIncome, Status: model.CategoryActive},
			{ID: "food", Name: "Groceries", Type: model.TypeExpense, Status: model.CategoryActive, MonthlyLimit: limit(500)},
			{ID: "fun", Name: "Leisure", Type: model.TypeExpense, Status: model.CategoryInactive},
		},
		Transactions: []model.Transaction{
			txn("a", "2024-03-02", "food", model.TypeExpense, model.StatusCompleted, 300),
			txn("b", "2024-03-03", "food", model.TypeExpense, model.StatusPending, 150),
			txn("c", "2024-02-28", "food", model.TypeExpense, model.StatusCompleted, 1000),
			txn("d", "2024-03-04", "fun", model.TypeExpense, model.StatusCompleted, 40),
			txn("e", "2024-03-04", "food", model.TypeIncome, model.StatusCompleted, 999),
		},
	}

	view := CategorySpend(state, "2024-03", BudgetViewPolicy)
	require.Len(t, view, 2, "only expense categories, in category order")
	assert.Equal(t, "food", view[0].Category.ID)
	assert.True(t, view[0].Spend.Equal(dec(450)))
	assert.Equal(t, 90.0, view[0].Utilization)
	assert.Equal(t, "fun", view[1].Category.ID)
	assert.Zero(t, view[1].Utilization, "no limit means no utilization")

	alertView := CategorySpend(state, "2024-03", AlertPolicy)
	assert.True(t, alertView[0].Spend.Equal(dec(300)))
	assert.Equal(t, 60.0, alertView[0].Utilization)

	assert.Len(t, Alerts(state, "2024-03", 80, BudgetViewPolicy), 1)
	assert.Empty(t, Alerts(state, "2024-03", 80, AlertPolicy))
	assert.Len(t, Alerts(state, "2024-03", 0, AlertPolicy), 1, "unlimited categories never alert")
}

func TestAlerts_PreserveCategoryOrder(t *testing.T) {
	state := model.AppState{
		Categories: []model.Category{
			{ID: "a", Name: "A", Type: model.TypeExpense, MonthlyLimit: limit(100)},
			{ID: "b", Name: "B", Type: model.TypeExpense, MonthlyLimit: limit(100)},
			{ID: "c", Name: "C", Type: model.TypeExpense, MonthlyLimit: limit(100)},
		},
		Transactions: []model.Transaction{
			txn("1", "2024-03-01", "a", model.TypeExpense, model.StatusCompleted, 85),
			txn("2", "2024-03-01", "b", model.TypeExpense, model.StatusCompleted, 300),
			txn("3", "2024-03-01", "c", model.TypeExpense, model.StatusCompleted, 95),
		},
	}

	alerts := Alerts(state, "2024-03", 80, AlertPolicy)
	require.Len(t, alerts, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{alerts[0].Category.ID, alerts[1].Category.ID, alerts[2].Category.ID})
	assert.Equal(t, LevelExceeded, alerts[1].Level)
}

func TestTrailingTrend_ZeroFillsGaps(t *testing.T) {
	txns := []model.Transaction{
		txn("a", "2024-01-05", "1", model.TypeIncome, model.StatusCompleted, 5000),
		txn("b", "2024-01-10", "3", model.TypeExpense, model.StatusPending, 1800),
		txn("c", "2024-03-05", "1", model.TypeIncome, model.StatusCompleted, 5100),
		txn("d", "2023-12-05", "1", model.TypeIncome, model.StatusCompleted, 1),
	}

	rows := TrailingTrend(txns, now, 3)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01", rows[0].Month)
	assert.Equal(t, "2024-02", rows[1].Month)
	assert.Equal(t, "2024-03", rows[2].Month)

	assert.True(t, rows[0].Income.Equal(dec(5000)))
	assert.True(t, rows[0].Expense.Equal(dec(1800)), "trend ignores status")
	assert.True(t, rows[1].Income.IsZero())
	assert.True(t, rows[1].Expense.IsZero())
	assert.True(t, rows[2].Net().Equal(dec(5100)))

	assert.Empty(t, TrailingTrend(txns, now, 0))
}

func TestMonthlyTrend_SortedDistinctMonths(t *testing.T) {
	txns := []model.Transaction{
		txn("a", "2024-03-05", "1", model.TypeIncome, model.StatusCompleted, 1),
		txn("b", "2023-11-10", "3", model.TypeExpense, model.StatusCompleted, 2),
		txn("c", "2024-01-05", "1", model.TypeIncome, model.StatusCompleted, 3),
		txn("d", "2024-03-06", "3", model.TypeExpense, model.StatusCompleted, 4),
	}

	rows := MonthlyTrend(txns)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2023-11", "2024-01", "2024-03"}, []string{rows[0].Month, rows[1].Month, rows[2].Month})
	assert.True(t, rows[2].Income.Equal(dec(1)))
	assert.True(t, rows[2].Expense.Equal(dec(4)))
	assert.Empty(t, MonthlyTrend(nil))
}

func TestTrailingMonthKeys_YearBoundary(t *testing.T) {
	jan := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01"}, TrailingMonthKeys(jan, 3))
}

func TestMonthPeriod(t *testing.T) {
	p := MonthPeriod(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, Period{From: "2024-02-01", To: "2024-02-29"}, p)
	assert.True(t, p.Contains("2024-02-29"))
	assert.False(t, p.Contains("2024-03-01"))

	got, err := PeriodForMonthKey("2023-12")
	require.NoError(t, err)
	assert.Equal(t, Period{From: "2023-12-01", To: "2023-12-31"}, got)

	_, err = PeriodForMonthKey("December")
	assert.Error(t, err)
}

func TestBudgetPlan(t *testing.T) {
	state := model.AppState{
		User: model.User{BaseSalary: dec(5000)},
		Categories: []model.Category{
			{ID: "sal", Name: "Salary", Type: model.TypeIncome, Status: model.CategoryActive},
			{ID: "rent", Name: "Rent", Type: model.TypeExpense, Status: model.CategoryActive, MonthlyLimit: limit(2000)},
			{ID: "food", Name: "Groceries", Type: model.TypeExpense, Status: model.CategoryActive, MonthlyLimit: limit(1500)},
			{ID: "old", Name: "Gym", Type: model.TypeExpense, Status: model.CategoryInactive, MonthlyLimit: limit(100)},
		},
		Transactions: []model.Transaction{
			txn("a", "2024-03-05", "sal", model.TypeIncome, model.StatusCompleted, 9000),
			txn("b", "2024-03-10", "rent", model.TypeExpense, model.StatusCompleted, 1800),
			txn("c", "2024-03-15", "food", model.TypeExpense, model.StatusPending, 450),
			txn("d", "2024-03-15", "ghost", model.TypeExpense, model.StatusCompleted, 70),
		},
	}

	plan := BudgetPlan(state, "2024-03", BudgetViewPolicy)
	assert.True(t, plan.PlannedIncome.Equal(dec(5000)), "planned income is the base salary")
	assert.True(t, plan.PlannedExpense.Equal(dec(3500)), "inactive limits are not planned")
	assert.True(t, plan.ProjectedBalance.Equal(dec(1500)))
	assert.True(t, plan.ActualExpense.Equal(dec(2250)))
	assert.True(t, plan.CurrentProjection.Equal(dec(2750)))
	assert.Len(t, plan.Categories, 3)

	// The three balance notions stay distinct.
	assert.True(t, Balance(state.Transactions).Equal(dec(7130)))
}

func TestBudgetVsActual(t *testing.T) {
	var cats []model.Category
	for i, l := range []float64{100, 700, 300, 0, 900, 200, 500, 400} {
		c := model.Category{ID: string(rune('a' + i)), Name: string(rune('A' + i)), Type: model.TypeExpense}
		if l > 0 {
			c.MonthlyLimit = limit(l)
		}
		cats = append(cats, c)
	}
	state := model.AppState{
		Categories:   cats,
		Transactions: []model.Transaction{txn("1", "2024-03-02", "b", model.TypeExpense, model.StatusPending, 650)},
	}

	rows := BudgetVsActual(state, "2024-03", 6, BudgetViewPolicy)
	require.Len(t, rows, 6)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"E", "B", "G", "H", "C", "F"}, names)
	assert.True(t, rows[1].Actual.Equal(dec(650)))

	assert.Len(t, BudgetVsActual(state, "2024-03", 0, BudgetViewPolicy), 7)
}

func TestGoalsReport(t *testing.T) {
	goals := []model.Goal{
		{ID: "1", Name: "Emergency", TargetValue: dec(15000), CurrentValue: dec(5000), MonthlyPlannedValue: dec(500)},
		{ID: "2", Name: "Done", TargetValue: dec(100), CurrentValue: dec(150)},
		{ID: "3", Name: "Unplanned", TargetValue: dec(100), CurrentValue: dec(10)},
		{ID: "4", Name: "Broken", TargetValue: decimal.Zero, CurrentValue: dec(10)},
	}

	rows := GoalsReport(goals)
	require.Len(t, rows, 4)
	assert.Equal(t, 20, rows[0].MonthsLeft)
	assert.True(t, rows[0].Remaining.Equal(dec(10000)))
	assert.Equal(t, 100.0, rows[1].Progress)
	assert.True(t, rows[1].Remaining.IsZero())
	assert.Equal(t, 0, rows[1].MonthsLeft)
	assert.Equal(t, -1, rows[2].MonthsLeft)
	assert.Zero(t, rows[3].Progress)
}

func TestDeletedCategoryFallsBackToLabel(t *testing.T) {
	state := model.AppState{
		Categories: []model.Category{{ID: "food", Name: "Groceries", Type: model.TypeExpense, Color: "#F59E0B"}},
		Transactions: []model.Transaction{
			txn("a", "2024-03-02", "food", model.TypeExpense, model.StatusCompleted, 30),
			txn("b", "2024-03-03", "deleted", model.TypeExpense, model.StatusCompleted, 20),
			txn("c", "2024-03-04", "also-deleted", model.TypeExpense, model.StatusPending, 5),
		},
	}

	assert.Equal(t, "Groceries", CategoryLabel(state, "food"))
	assert.Equal(t, UncategorizedLabel, CategoryLabel(state, "deleted"))

	rows := ExpenseBreakdown(state, MonthPeriod(now), BudgetViewPolicy)
	require.Len(t, rows, 2)
	assert.Equal(t, "Groceries", rows[0].Name)
	assert.Equal(t, "#F59E0B", rows[0].Color)
	assert.Equal(t, UncategorizedLabel, rows[1].Name)
	assert.True(t, rows[1].Total.Equal(dec(25)))

	filtered := FilterTransactions(state.Transactions, Filter{CategoryID: "deleted"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].ID)
}

func TestExpenseBreakdown_DropsZeroRows(t *testing.T) {
	state := model.AppState{
		Categories: []model.Category{{ID: "food", Name: "Groceries", Type: model.TypeExpense}},
		Transactions: []model.Transaction{
			txn("a", "2024-03-02", "food", model.TypeExpense, model.StatusCompleted, 0),
			txn("b", "2024-03-02", "food", model.TypeIncome, model.StatusCompleted, 100),
		},
	}
	assert.Empty(t, ExpenseBreakdown(state, MonthPeriod(now), BudgetViewPolicy))
}

func TestFilterTransactions(t *testing.T) {
	txns := []model.Transaction{
		{ID: "1", Date: "2024-03-01", Description: "Weekly Groceries", Type: model.TypeExpense, Status: model.StatusCompleted},
		{ID: "2", Date: "2024-03-09", Description: "Salary", Type: model.TypeIncome, Status: model.StatusCompleted},
		{ID: "3", Date: "2024-03-05", Description: "groceries top-up", Type: model.TypeExpense, Status: model.StatusPending},
		{ID: "4", Date: "2024-02-27", Description: "Groceries", Type: model.TypeExpense, Status: model.StatusCompleted},
	}
	march := MonthPeriod(now)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all newest first", filter: Filter{}, want: []string{"2", "3", "1", "4"}},
		{name: "expenses", filter: Filter{Type: model.TypeExpense}, want: []string{"3", "1", "4"}},
		{name: "case insensitive search", filter: Filter{Search: "GROCERIES"}, want: []string{"3", "1", "4"}},
		{name: "search within period", filter: Filter{Search: "groceries", Period: &march}, want: []string{"3", "1"}},
		{name: "pending only", filter: Filter{Status: model.StatusPending}, want: []string{"3"}},
		{name: "no match", filter: Filter{Search: "rent"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTransactions(txns, tt.filter)
			ids := make([]string, len(got))
			for i, g := range got {
				ids[i] = g.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
	assert.Equal(t, "1", txns[0].ID, "input is not reordered")
}

func TestRecentTransactions(t *testing.T) {
	var txns []model.Transaction
	for i := 1; i <= 8; i++ {
		txns = append(txns, model.Transaction{ID: string(rune('0' + i)), Date: "2024-03-0" + string(rune('0'+i))})
	}

	recent := RecentTransactions(txns, 5)
	require.Len(t, recent, 5)
	assert.Equal(t, "8", recent[0].ID)
	assert.Equal(t, "4", recent[4].ID)
	assert.Equal(t, "1", txns[0].ID)

	assert.Len(t, RecentTransactions(txns[:2], 5), 2)
}

func TestDashboard(t *testing.T) {
	state := model.AppState{
		User:     model.User{BaseSalary: dec(5000)},
		Settings: model.Settings{AlertThreshold: 90},
		Categories: []model.Category{
			{ID: "rent", Name: "Rent", Type: model.TypeExpense, Status: model.CategoryActive, MonthlyLimit: limit(2000)},
			{ID: "food", Name: "Groceries", Type: model.TypeExpense, Status: model.CategoryActive, MonthlyLimit: limit(500)},
		},
		Transactions: []model.Transaction{
			txn("a", "2024-03-05", "sal", model.TypeIncome, model.StatusCompleted, 5000),
			txn("b", "2024-03-10", "rent", model.TypeExpense, model.StatusCompleted, 1700),
			txn("c", "2024-03-11", "food", model.TypeExpense, model.StatusCompleted, 480),
			txn("d", "2024-03-12", "food", model.TypeExpense, model.StatusPending, 400),
			txn("e", "2024-01-02", "food", model.TypeExpense, model.StatusCompleted, 20),
		},
		Goals: []model.Goal{{ID: "g", TargetValue: dec(100), CurrentValue: dec(50)}},
	}

	view := Dashboard(state, now, DashboardOptions{})
	assert.Equal(t, "2024-03", view.Month)
	assert.Equal(t, 90.0, view.Threshold)
	assert.True(t, view.Totals.Income.Equal(dec(5000)))
	assert.True(t, view.Totals.Expense.Equal(dec(2180)))
	assert.True(t, view.Balance.Equal(dec(2800)))
	assert.InDelta(t, 56.4, view.SavingsRate, 0.0001)
	require.Len(t, view.Alerts, 1, "only groceries crosses 90 on settled spend")
	assert.Equal(t, "food", view.Alerts[0].Category.ID)
	assert.Len(t, view.Recent, 5)
	assert.Equal(t, "d", view.Recent[0].ID)
	assert.Len(t, view.Trend, DefaultTrendMonths)
	require.Len(t, view.Goals, 1)
	assert.Equal(t, 50.0, view.Goals[0].Progress)

	lower := Dashboard(state, now, DashboardOptions{Threshold: 80, Recent: 2, TrendMonths: 3})
	assert.Len(t, lower.Alerts, 2)
	assert.Len(t, lower.Recent, 2)
	assert.Len(t, lower.Trend, 3)

	state.Settings.AlertThreshold = 0
	assert.Equal(t, float64(model.DefaultAlertThreshold), Dashboard(state, now, DashboardOptions{}).Threshold)
}

func TestDerivationsDoNotMutateInput(t *testing.T) {
	state := model.AppState{
		Categories: []model.Category{{ID: "food", Name: "Groceries", Type: model.TypeExpense, MonthlyLimit: limit(100)}},
		Transactions: []model.Transaction{
			txn("a", "2024-03-01", "food", model.TypeExpense, model.StatusCompleted, 10),
			txn("b", "2024-03-09", "food", model.TypeExpense, model.StatusCompleted, 20),
		},
	}
	before := state.Clone()

	_ = Dashboard(state, now, DashboardOptions{})
	_ = FilterTransactions(state.Transactions, Filter{})
	_ = BudgetVsActual(state, "2024-03", 1, BudgetViewPolicy)
	_ = ExpenseBreakdown(state, MonthPeriod(now), BudgetViewPolicy)

	assert.Equal(t, before, state.Clone())
}
