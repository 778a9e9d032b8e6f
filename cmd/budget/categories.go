package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List, add, update, and delete the categories transactions are grouped by, and their monthly limits.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var (
		month  string
		spend  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			state := a.store.Snapshot()
			if !spend {
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), state.Categories)
				}
				if len(state.Categories) == 0 {
					printInfo(cmd, "No categories found. Use 'budget categories add' to create one.")
					return nil
				}
				cli.CategoriesTable(cmd.OutOrStdout(), state.User.Currency, state.Categories)
				return nil
			}

			key, err := resolveMonth(month, a.now())
			if err != nil {
				return err
			}
			rows := derive.CategorySpend(state, key, derive.BudgetViewPolicy)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			cli.CategorySpendTable(cmd.OutOrStdout(), state.User.Currency, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&spend, "spend", false, "show expense categories with their spend for the month")
	cmd.Flags().StringVarP(&month, "month", "m", "", "month for --spend as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		typ, status, color, limit string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Example: `  budget categories add "Health" --limit 400
  budget categories add "Dividends" --type income`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			draft := model.CategoryDraft{
				Name:   args[0],
				Type:   model.TransactionType(typ),
				Status: model.CategoryStatus(status),
				Color:  color,
			}
			if limit != "" {
				value, err := parseAmount(limit)
				if err != nil {
					return err
				}
				draft.MonthlyLimit = &value
			}
			if err := draft.Validate(); err != nil {
				return err
			}

			id, err := a.store.AddCategory(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printSuccess(cmd, "Added category %q as %s", draft.Name, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVar(&status, "status", string(model.CategoryActive), "active or inactive")
	cmd.Flags().StringVar(&color, "color", "", "display colour, e.g. #F59E0B")
	cmd.Flags().StringVarP(&limit, "limit", "l", "", "monthly limit, 0 for none")
	return cmd
}

func updateCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			if _, ok := a.store.Category(id); !ok {
				return notFound("category", id)
			}
			patch, err := categoryPatch(cmd)
			if err != nil {
				return err
			}
			if err := a.store.UpdateCategory(cmd.Context(), id, patch); err != nil {
				return err
			}
			printSuccess(cmd, "Updated category %s", id)
			return nil
		},
	}
	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("type", "", "income or expense")
	cmd.Flags().String("status", "", "active or inactive")
	cmd.Flags().String("color", "", "display colour")
	cmd.Flags().StringP("limit", "l", "", "monthly limit, 0 for none")
	return cmd
}

func categoryPatch(cmd *cobra.Command) (model.CategoryPatch, error) {
	var patch model.CategoryPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		patch.Name = &v
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		patch.Type = ptr(model.TransactionType(v))
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		patch.Status = ptr(model.CategoryStatus(v))
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		patch.Color = &v
	}
	if flags.Changed("limit") {
		v, _ := flags.GetString("limit")
		limit, err := parseAmount(v)
		if err != nil {
			return patch, err
		}
		patch.MonthlyLimit = &limit
	}
	return patch, patch.Validate()
}

func deleteCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category. Transactions that used it are kept and shown as
uncategorized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			c, ok := a.store.Category(id)
			if !ok {
				return notFound("category", id)
			}

			used := len(derive.FilterTransactions(a.store.Snapshot().Transactions, derive.Filter{CategoryID: id}))
			question := fmt.Sprintf("Delete category %q?", c.Name)
			if used > 0 {
				question = fmt.Sprintf("Delete category %q? %d transactions will become %s.", c.Name, used, derive.UncategorizedLabel)
			}
			ok, err = confirm(cmd, question)
			if err != nil || !ok {
				return err
			}
			if err := a.store.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(cmd, "Deleted category %q", c.Name)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}
