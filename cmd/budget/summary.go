package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/derive"
)

func summaryCmd() *cobra.Command {
	var (
		asJSON    bool
		threshold float64
		recent    int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show this month's totals, alerts and recent activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			state := a.store.Snapshot()
			view := derive.Dashboard(state, a.now(), derive.DashboardOptions{
				Threshold: threshold,
				Recent:    recent,
			})
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return cli.DashboardSummary(cmd.OutOrStdout(), state, view)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "alert threshold in percent (default from settings)")
	cmd.Flags().IntVar(&recent, "recent", derive.DefaultRecent, "number of recent transactions")
	return cmd
}

func budgetCmd() *cobra.Command {
	var (
		month         string
		asJSON        bool
		completedOnly bool
	)
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show the monthly plan against actual spending",
		Long: `Show planned income and expense for a month, the projected balance, and
each expense category's spend against its limit.

Pending transactions count toward category spend unless --completed-only is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := resolveMonth(month, a.now())
			if err != nil {
				return err
			}
			policy := derive.BudgetViewPolicy
			if completedOnly {
				policy = derive.AlertPolicy
			}

			state := a.store.Snapshot()
			plan := derive.BudgetPlan(state, key, policy)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Budget "+key))
			cli.PlanTable(cmd.OutOrStdout(), state.User.Currency, plan)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	cmd.Flags().BoolVar(&completedOnly, "completed-only", false, "ignore pending transactions")
	return cmd
}
