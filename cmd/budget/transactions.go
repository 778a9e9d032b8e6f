package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and review transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		month, typ, status, category, search string
		limit                                int
		asJSON                               bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			filter := derive.Filter{
				Type:       model.TransactionType(typ),
				Status:     model.TransactionStatus(status),
				CategoryID: category,
				Search:     search,
			}
			if month != "" {
				key, err := resolveMonth(month, a.now())
				if err != nil {
					return err
				}
				period, err := derive.PeriodForMonthKey(key)
				if err != nil {
					return err
				}
				filter.Period = &period
			}

			state := a.store.Snapshot()
			txns := derive.FilterTransactions(state.Transactions, filter)
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), txns)
			}
			if len(txns) == 0 {
				printInfo(cmd, "No transactions found. Use 'budget tx add' to record one.")
				return nil
			}
			cli.TransactionsTable(cmd.OutOrStdout(), state, txns)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "only this month (YYYY-MM)")
	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&status, "status", "", "pending or completed")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id")
	cmd.Flags().StringVarP(&search, "search", "s", "", "text contained in the description")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n transactions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		date, description, category, typ, status, payment, amount string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  budget tx add --amount 42.90 --description "Pharmacy" --category 4
  budget tx add --type income --amount 800 --description "Side project" --category 2 --date 2024-03-02`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			draft, err := transactionDraft(date, description, category, typ, status, payment, amount, a)
			if err != nil {
				return err
			}
			id, err := a.store.AddTransaction(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printSuccess(cmd, "Recorded %s %s as %s", draft.Type, cli.Money(a.store.Snapshot().User.Currency, draft.Amount), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD, today or yesterday (default: today)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id")
	cmd.Flags().StringVar(&typ, "type", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVar(&status, "status", string(model.StatusCompleted), "pending or completed")
	cmd.Flags().StringVar(&payment, "payment", "", "cash, debit, credit or instant_transfer")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "non-negative amount")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func transactionDraft(date, description, category, typ, status, payment, amount string, a *app) (model.TransactionDraft, error) {
	resolved, err := resolveDate(date, a.now())
	if err != nil {
		return model.TransactionDraft{}, err
	}
	value, err := parseAmount(amount)
	if err != nil {
		return model.TransactionDraft{}, err
	}
	if category != "" {
		if _, ok := a.store.Category(category); !ok {
			return model.TransactionDraft{}, notFound("category", category)
		}
	}
	draft := model.TransactionDraft{
		Date:          resolved,
		Description:   description,
		CategoryID:    category,
		Type:          model.TransactionType(typ),
		Status:        model.TransactionStatus(status),
		PaymentMethod: model.PaymentMethod(payment),
		Amount:        value,
	}
	return draft, draft.Validate()
}

func updateTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			if _, ok := a.store.Transaction(id); !ok {
				return notFound("transaction", id)
			}
			patch, err := transactionPatch(cmd, a)
			if err != nil {
				return err
			}
			if err := a.store.UpdateTransaction(cmd.Context(), id, patch); err != nil {
				return err
			}
			printSuccess(cmd, "Updated transaction %s", id)
			return nil
		},
	}
	cmd.Flags().String("date", "", "date as YYYY-MM-DD, today or yesterday")
	cmd.Flags().StringP("description", "d", "", "description")
	cmd.Flags().StringP("category", "c", "", "category id, empty to uncategorize")
	cmd.Flags().String("type", "", "income or expense")
	cmd.Flags().String("status", "", "pending or completed")
	cmd.Flags().String("payment", "", "cash, debit, credit or instant_transfer")
	cmd.Flags().StringP("amount", "a", "", "non-negative amount")
	return cmd
}

// transactionPatch builds a patch from the flags the user actually set.
func transactionPatch(cmd *cobra.Command, a *app) (model.TransactionPatch, error) {
	var patch model.TransactionPatch
	flags := cmd.Flags()
	if flags.Changed("date") {
		v, _ := flags.GetString("date")
		date, err := resolveDate(v, a.now())
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		if v != "" {
			if _, ok := a.store.Category(v); !ok {
				return patch, notFound("category", v)
			}
		}
		patch.CategoryID = &v
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		patch.Type = ptr(model.TransactionType(v))
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		patch.Status = ptr(model.TransactionStatus(v))
	}
	if flags.Changed("payment") {
		v, _ := flags.GetString("payment")
		patch.PaymentMethod = ptr(model.PaymentMethod(v))
	}
	if flags.Changed("amount") {
		v, _ := flags.GetString("amount")
		amount, err := parseAmount(v)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	return patch, patch.Validate()
}

func deleteTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			t, ok := a.store.Transaction(id)
			if !ok {
				return notFound("transaction", id)
			}
			ok, err = confirm(cmd, fmt.Sprintf("Delete %q from %s?", t.Description, t.Date))
			if err != nil || !ok {
				return err
			}
			if err := a.store.DeleteTransaction(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(cmd, "Deleted transaction %s", id)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}
