package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

func newTable(w io.Writer, header []string, alignments []int) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	if alignments != nil {
		table.SetColumnAlignment(alignments)
	}
	return table
}

const (
	left  = tablewriter.ALIGN_LEFT
	right = tablewriter.ALIGN_RIGHT
)

// TransactionsTable lists transactions with their category labels.
func TransactionsTable(w io.Writer, state model.AppState, txns []model.Transaction) {
	table := newTable(w,
		[]string{"ID", "Date", "Description", "Category", "Status", "Payment", "Amount"},
		[]int{left, left, left, left, left, left, right})
	currency := state.User.Currency
	for _, t := range txns {
		table.Append([]string{
			t.ID,
			t.Date,
			t.Description,
			derive.CategoryLabel(state, t.CategoryID),
			string(t.Status),
			string(t.PaymentMethod),
			SignedMoney(currency, t.SignedAmount()),
		})
	}
	table.Render()
}

// CategoriesTable lists categories and their limits.
func CategoriesTable(w io.Writer, currency string, cats []model.Category) {
	table := newTable(w,
		[]string{"ID", "Name", "Type", "Status", "Color", "Monthly limit"},
		[]int{left, left, left, left, left, right})
	for _, c := range cats {
		limit := "-"
		if c.HasLimit() {
			limit = Money(currency, c.Limit())
		}
		table.Append([]string{c.ID, c.Name, string(c.Type), string(c.Status), c.Color, limit})
	}
	table.Render()
}

// CategorySpendTable shows spend against limit for each expense category.
func CategorySpendTable(w io.Writer, currency string, rows []derive.CategorySpendRow) {
	table := newTable(w,
		[]string{"Category", "Limit", "Spent", "Remaining", "Used", "Status"},
		[]int{left, right, right, right, right, left})
	for _, r := range rows {
		limit, remaining, used := "-", "-", "-"
		if r.Category.HasLimit() {
			limit = Money(currency, r.Limit)
			remaining = Money(currency, r.Remaining)
			used = Percent(r.Utilization)
		}
		table.Append([]string{
			r.Category.Name,
			limit,
			Money(currency, r.Spend),
			remaining,
			used,
			FormatLevel(r.Level, string(r.Level)),
		})
	}
	table.Render()
}

// PlanTable summarises the monthly plan above its category rows.
func PlanTable(w io.Writer, currency string, plan derive.Plan) {
	table := newTable(w, []string{"Plan " + plan.Month, "Amount"}, []int{left, right})
	table.AppendBulk([][]string{
		{"Planned income", Money(currency, plan.PlannedIncome)},
		{"Planned expense", Money(currency, plan.PlannedExpense)},
		{"Projected balance", Money(currency, plan.ProjectedBalance)},
		{"Actual expense", Money(currency, plan.ActualExpense)},
		{"Current projection", Money(currency, plan.CurrentProjection)},
	})
	table.Render()
	CategorySpendTable(w, currency, plan.Categories)
}

// TrendTable shows income, expense and net per month.
func TrendTable(w io.Writer, currency string, rows []derive.TrendRow) {
	table := newTable(w, []string{"Month", "Income", "Expense", "Net"}, []int{left, right, right, right})
	for _, r := range rows {
		table.Append([]string{
			r.Month,
			Money(currency, r.Income),
			Money(currency, r.Expense),
			SignedMoney(currency, r.Net()),
		})
	}
	table.Render()
}

// BreakdownTable shows expense totals per category label.
func BreakdownTable(w io.Writer, currency string, rows []derive.BreakdownRow) {
	table := newTable(w, []string{"Category", "Total"}, []int{left, right})
	for _, r := range rows {
		table.Append([]string{r.Name, Money(currency, r.Total)})
	}
	table.Render()
}

// GoalsTable shows progress toward each goal.
func GoalsTable(w io.Writer, currency string, rows []derive.GoalRow) {
	table := newTable(w,
		[]string{"ID", "Goal", "Deadline", "Status", "Target", "Saved", "Remaining", "Progress", "Months left"},
		[]int{left, left, left, left, right, right, right, right, right})
	for _, r := range rows {
		months := "n/a"
		if r.MonthsLeft >= 0 {
			months = strconv.Itoa(r.MonthsLeft)
		}
		table.Append([]string{
			r.Goal.ID,
			r.Goal.Name,
			r.Goal.Deadline,
			string(r.Goal.Status),
			Money(currency, r.Goal.TargetValue),
			Money(currency, r.Goal.CurrentValue),
			Money(currency, r.Remaining),
			Percent(r.Progress),
			months,
		})
	}
	table.Render()
}

// DashboardSummary prints the month totals, alerts and recent activity.
func DashboardSummary(w io.Writer, state model.AppState, view derive.DashboardView) error {
	currency := state.User.Currency
	summary := fmt.Sprintf("Income:        %s\n", SuccessStyle.Render(Money(currency, view.Totals.Income))) +
		fmt.Sprintf("Expense:       %s\n", ErrorStyle.Render(Money(currency, view.Totals.Expense))) +
		fmt.Sprintf("Net:           %s\n", SignedMoney(currency, view.Totals.Net())) +
		fmt.Sprintf("Savings rate:  %s\n", Percent(view.SavingsRate)) +
		fmt.Sprintf("Balance:       %s", BoldStyle.Render(Money(currency, view.Balance)))
	if _, err := fmt.Fprintln(w, RenderBox(ChartIcon+" "+view.Month, summary)); err != nil {
		return err
	}

	if len(view.Alerts) == 0 {
		if _, err := fmt.Fprintln(w, FormatSuccess(fmt.Sprintf("No category above %s of its limit", Percent(view.Threshold)))); err != nil {
			return err
		}
	} else {
		for _, a := range view.Alerts {
			msg := fmt.Sprintf("%s at %s of its limit (%s of %s)",
				a.Category.Name, Percent(a.Utilization), Money(currency, a.Spend), Money(currency, a.Limit))
			if _, err := fmt.Fprintln(w, FormatWarning(msg)); err != nil {
				return err
			}
		}
	}

	if len(view.Recent) > 0 {
		if _, err := fmt.Fprintln(w, SubtitleStyle.Render("Recent transactions")); err != nil {
			return err
		}
		TransactionsTable(w, state, view.Recent)
	}
	return nil
}
