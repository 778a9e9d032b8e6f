// Package seed builds the starter ledger shown on first run.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/idgen"
	"github.com/Veraticus/spice-budget/internal/model"
)

// HistoryMonths is how many months of synthetic history DefaultSnapshot generates,
// counting the current month.
const HistoryMonths = 3

// Starter category ids. They are fixed so the generated history can reference them.
const (
	CategorySalary    = "1"
	CategoryFreelance = "2"
	CategoryRent      = "3"
	CategoryGroceries = "4"
	CategoryTransport = "5"
	CategoryLeisure   = "6"
)

// DefaultUser is the profile of a fresh ledger.
func DefaultUser() model.User {
	return model.User{
		Name:        "Demo User",
		ProfileType: model.ProfileIndividual,
		Currency:    "BRL",
		BaseSalary:  decimal.NewFromInt(5000),
		IsActive:    true,
	}
}

// DefaultSettings are the reporting preferences of a fresh ledger.
func DefaultSettings() model.Settings {
	return model.Settings{StartMonth: 0, AlertThreshold: model.DefaultAlertThreshold}
}

// DefaultCategories returns the starter categories.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: CategorySalary, Name: "Salary", Type: model.TypeIncome, Status: model.CategoryActive, Color: "#10B981"},
		{ID: CategoryFreelance, Name: "Freelance", Type: model.TypeIncome, Status: model.CategoryActive, Color: "#34D399"},
		expense(CategoryRent, "Rent", 2000, "#F43F5E"),
		expense(CategoryGroceries, "Groceries", 1500, "#F59E0B"),
		expense(CategoryTransport, "Transport", 500, "#3B82F6"),
		expense(CategoryLeisure, "Leisure", 300, "#8B5CF6"),
	}
}

func expense(id, name string, limit int64, color string) model.Category {
	l := decimal.NewFromInt(limit)
	return model.Category{
		ID:           id,
		Name:         name,
		Type:         model.TypeExpense,
		Status:       model.CategoryActive,
		Color:        color,
		MonthlyLimit: &l,
	}
}

// History generates one salary, one rent and one grocery entry for each of the
// HistoryMonths months ending at now, newest month first.
func History(now time.Time, gen idgen.Generator) []model.Transaction {
	txns := make([]model.Transaction, 0, HistoryMonths*3)

	for i := 0; i < HistoryMonths; i++ {
		month := firstOfMonth(now).AddDate(0, -i, 0)
		day := func(d int) string {
			return month.AddDate(0, 0, d-1).Format(model.DateLayout)
		}

		txns = append(txns,
			model.Transaction{
				ID:          gen.NewID(),
				Date:        day(5),
				Description: "Monthly salary",
				CategoryID:  CategorySalary,
				Amount:      decimal.NewFromInt(5000),
				Type:        model.TypeIncome,
				Status:      model.StatusCompleted,
			},
			model.Transaction{
				ID:            gen.NewID(),
				Date:          day(10),
				Description:   "Apartment rent",
				CategoryID:    CategoryRent,
				Amount:        decimal.NewFromInt(1800),
				Type:          model.TypeExpense,
				Status:        model.StatusCompleted,
				PaymentMethod: model.PaymentInstantTransfer,
			},
			model.Transaction{
				ID:            gen.NewID(),
				Date:          day(15),
				Description:   "Weekly groceries",
				CategoryID:    CategoryGroceries,
				Amount:        decimal.NewFromInt(450),
				Type:          model.TypeExpense,
				Status:        model.StatusCompleted,
				PaymentMethod: model.PaymentCredit,
			},
		)
	}
	return txns
}

// DefaultGoals returns the starter emergency-fund goal, due a year from now.
func DefaultGoals(now time.Time) []model.Goal {
	return []model.Goal{
		{
			ID:                  "1",
			Name:                "Emergency fund",
			TargetValue:         decimal.NewFromInt(15000),
			CurrentValue:        decimal.NewFromInt(5000),
			MonthlyPlannedValue: decimal.NewFromInt(500),
			Deadline:            now.AddDate(1, 0, 0).Format(model.DateLayout),
			Status:              model.GoalInProgress,
		},
	}
}

// DefaultSnapshot assembles the complete first-run state.
func DefaultSnapshot(now time.Time, gen idgen.Generator) model.AppState {
	if gen == nil {
		gen = idgen.Default
	}
	return model.AppState{
		User:         DefaultUser(),
		Transactions: History(now, gen),
		Categories:   DefaultCategories(),
		Goals:        DefaultGoals(now),
		Settings:     DefaultSettings(),
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
