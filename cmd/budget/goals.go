package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Track savings goals",
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(updateGoalCmd())
	cmd.AddCommand(deleteGoalCmd())
	cmd.AddCommand(contributeGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			state := a.store.Snapshot()
			rows := derive.GoalsReport(state.Goals)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				printInfo(cmd, "No goals yet. Use 'budget goals add' to set one.")
				return nil
			}
			cli.GoalsTable(cmd.OutOrStdout(), state.User.Currency, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func addGoalCmd() *cobra.Command {
	var (
		deadline, status, target, current, monthly string
	)
	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a savings goal",
		Example: `  budget goals add "New laptop" --target 9000 --deadline 2025-06-30 --monthly 750`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			draft := model.GoalDraft{
				Name:     args[0],
				Deadline: deadline,
				Status:   model.GoalStatus(status),
			}
			amounts := []struct {
				raw string
				dst *decimal.Decimal
			}{
				{target, &draft.TargetValue},
				{current, &draft.CurrentValue},
				{monthly, &draft.MonthlyPlannedValue},
			}
			for _, f := range amounts {
				if f.raw == "" {
					continue
				}
				value, err := parseAmount(f.raw)
				if err != nil {
					return err
				}
				*f.dst = value
			}
			if err := draft.Validate(); err != nil {
				return err
			}

			id, err := a.store.AddGoal(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printSuccess(cmd, "Added goal %q as %s", draft.Name, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", string(model.GoalInProgress), "in_progress or completed")
	cmd.Flags().StringVarP(&target, "target", "t", "", "amount to reach")
	cmd.Flags().StringVar(&current, "current", "", "amount already saved")
	cmd.Flags().StringVar(&monthly, "monthly", "", "planned monthly contribution")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func updateGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			if _, ok := a.store.Goal(id); !ok {
				return notFound("goal", id)
			}
			patch, err := goalPatch(cmd)
			if err != nil {
				return err
			}
			if err := a.store.UpdateGoal(cmd.Context(), id, patch); err != nil {
				return err
			}
			printSuccess(cmd, "Updated goal %s", id)
			return nil
		},
	}
	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().String("status", "", "in_progress or completed")
	cmd.Flags().StringP("target", "t", "", "amount to reach")
	cmd.Flags().String("current", "", "amount saved so far")
	cmd.Flags().String("monthly", "", "planned monthly contribution")
	return cmd
}

func goalPatch(cmd *cobra.Command) (model.GoalPatch, error) {
	var patch model.GoalPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		patch.Name = &v
	}
	if flags.Changed("deadline") {
		v, _ := flags.GetString("deadline")
		patch.Deadline = &v
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		patch.Status = ptr(model.GoalStatus(v))
	}
	for flag, dst := range map[string]**decimal.Decimal{
		"target":  &patch.TargetValue,
		"current": &patch.CurrentValue,
		"monthly": &patch.MonthlyPlannedValue,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, _ := flags.GetString(flag)
		value, err := parseAmount(v)
		if err != nil {
			return patch, err
		}
		*dst = &value
	}
	return patch, patch.Validate()
}

func deleteGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			g, ok := a.store.Goal(id)
			if !ok {
				return notFound("goal", id)
			}
			ok, err = confirm(cmd, fmt.Sprintf("Delete goal %q?", g.Name))
			if err != nil || !ok {
				return err
			}
			if err := a.store.DeleteGoal(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(cmd, "Deleted goal %q", g.Name)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}

func contributeGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <id> <amount>",
		Short: "Add money to a goal",
		Long: `Add money to a goal's saved amount. The goal's status is left unchanged;
use 'budget goals update --status completed' once it is reached.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			if _, ok := a.store.Goal(id); !ok {
				return notFound("goal", id)
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if !amount.IsPositive() {
				return fmt.Errorf("%w: contribution must be positive", model.ErrInvalidInput)
			}
			if err := a.store.ContributeToGoal(cmd.Context(), id, amount); err != nil {
				return err
			}

			g, _ := a.store.Goal(id)
			row := derive.GoalsReport([]model.Goal{g})[0]
			currency := a.store.Snapshot().User.Currency
			printSuccess(cmd, "%s %s: %s of %s (%s)", cli.GoalIcon, g.Name,
				cli.Money(currency, g.CurrentValue), cli.Money(currency, g.TargetValue), cli.Percent(row.Progress))
			return nil
		},
	}
}
