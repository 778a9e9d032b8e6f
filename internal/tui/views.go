package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

func (m Model) renderLoading() string {
	return m.theme.Muted.Render("Loading budget...")
}

func (m Model) renderDashboard() string {
	state := m.state
	month := m.Month()
	period := derive.MonthPeriod(m.month)

	sections := []string{
		m.renderHeader(month),
		m.renderTotals(state, period),
		m.renderCategories(state, month),
		m.renderAlerts(state, month),
		m.renderTransactions(state, period),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(month string) string {
	title := m.theme.Header.Render(cli.WalletIcon + " Budget " + month)
	if name := m.state.User.Name; name != "" {
		title += " " + m.theme.Muted.Render(name)
	}
	return title
}

func (m Model) renderTotals(state model.AppState, period derive.Period) string {
	currency := state.User.Currency
	totals := derive.PeriodTotals(state.Transactions, period)

	lines := []string{
		"Income       " + m.theme.Income.Render(cli.Money(currency, totals.Income)),
		"Expense      " + m.theme.Expense.Render(cli.Money(currency, totals.Expense)),
		"Net          " + cli.SignedMoney(currency, totals.Net()),
		"Savings rate " + cli.Percent(totals.SavingsRate()),
		"Balance      " + m.theme.Bold.Render(cli.Money(currency, derive.Balance(state.Transactions))),
	}
	return m.theme.Box.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCategories(state model.AppState, month string) string {
	rows := derive.CategorySpend(state, month, derive.BudgetViewPolicy)
	var b strings.Builder
	b.WriteString(m.theme.Subtitle.Render("Categories"))
	if len(rows) == 0 {
		b.WriteString("\n" + m.theme.Muted.Render("No expense categories"))
		return b.String()
	}

	currency := state.User.Currency
	for _, r := range rows {
		b.WriteString("\n")
		name := fmt.Sprintf("%-14s", truncate(r.Category.Name, 14))
		if !r.Category.HasLimit() {
			fmt.Fprintf(&b, "%s %s  %s", name, m.theme.Muted.Render(strings.Repeat("·", 20)),
				cli.Money(currency, r.Spend))
			continue
		}
		fmt.Fprintf(&b, "%s %s %s  %s / %s",
			name,
			m.bar.ViewAs(math.Min(r.Utilization/100, 1)),
			m.levelStyle(r.Level).Render(fmt.Sprintf("%4s", cli.Percent(r.Utilization))),
			cli.Money(currency, r.Spend),
			cli.Money(currency, r.Limit),
		)
	}
	return b.String()
}

func (m Model) renderAlerts(state model.AppState, month string) string {
	threshold := state.Settings.Threshold()
	alerts := derive.Alerts(state, month, threshold, derive.AlertPolicy)
	if len(alerts) == 0 {
		return m.theme.StatusOK.Render(fmt.Sprintf("%s No category above %s of its limit", cli.SuccessIcon, cli.Percent(threshold)))
	}

	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		lines = append(lines, m.levelStyle(a.Level).Render(
			fmt.Sprintf("%s %s at %s of its limit", cli.WarningIcon, a.Category.Name, cli.Percent(a.Utilization))))
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTransactions(state model.AppState, period derive.Period) string {
	txns := derive.FilterTransactions(state.Transactions, derive.Filter{Period: &period})
	var b strings.Builder
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("Transactions (%d)", len(txns))))
	if len(txns) == 0 {
		b.WriteString("\n" + m.theme.Muted.Render("Nothing recorded this month"))
		return b.String()
	}
	if len(txns) > m.recent {
		txns = txns[:m.recent]
	}

	currency := state.User.Currency
	for _, t := range txns {
		amount := cli.SignedMoney(currency, t.SignedAmount())
		if t.Type == model.TypeIncome {
			amount = m.theme.Income.Render(amount)
		} else {
			amount = m.theme.Expense.Render(amount)
		}
		status := ""
		if t.Status != model.StatusCompleted {
			status = " " + m.theme.Muted.Render(string(t.Status))
		}
		fmt.Fprintf(&b, "\n%s  %-24s %-12s %s%s",
			t.Date,
			truncate(t.Description, 24),
			truncate(derive.CategoryLabel(state, t.CategoryID), 12),
			amount,
			status,
		)
	}
	return b.String() + "\n"
}

func (m Model) levelStyle(level derive.Level) lipgloss.Style {
	switch level {
	case derive.LevelExceeded:
		return m.theme.StatusError
	case derive.LevelWarning:
		return m.theme.StatusWarning
	default:
		return m.theme.StatusOK
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
