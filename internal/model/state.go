package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Snapshots store amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// AppState is the aggregate root and the whole unit of persistence.
type AppState struct {
	User         User          `json:"user"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Goals        []Goal        `json:"goals"`
	Settings     Settings      `json:"settings"`
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s AppState) Clone() AppState {
	out := AppState{
		User:         s.User,
		Settings:     s.Settings,
		Transactions: make([]Transaction, len(s.Transactions)),
		Categories:   make([]Category, len(s.Categories)),
		Goals:        make([]Goal, len(s.Goals)),
	}
	copy(out.Transactions, s.Transactions)
	copy(out.Goals, s.Goals)
	for i, c := range s.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

// Normalize replaces nil lists with empty ones so snapshots always encode as arrays.
func (s *AppState) Normalize() {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
}

// FindCategory returns the category with the given id.
func (s AppState) FindCategory(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ErrInvalidState is wrapped by every shape violation reported by Validate.
var ErrInvalidState = errors.New("invalid state")

// Validate checks the shape of an externally supplied snapshot.
// The state store never calls it for its own mutations.
func (s AppState) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidState}, args...)...))
	}

	switch s.User.ProfileType {
	case ProfileIndividual, ProfileFamily:
	default:
		add("user profileType %q", s.User.ProfileType)
	}
	if s.User.BaseSalary.IsNegative() {
		add("user baseSalary must not be negative")
	}
	if s.Settings.StartMonth < 0 || s.Settings.StartMonth > 11 {
		add("settings startMonth %d out of range 0-11", s.Settings.StartMonth)
	}
	if s.Settings.AlertThreshold < 0 || s.Settings.AlertThreshold > 100 {
		add("settings alertThreshold %.2f out of range 0-100", s.Settings.AlertThreshold)
	}

	seen := make(map[string]struct{}, len(s.Transactions))
	for i, t := range s.Transactions {
		if t.ID == "" {
			add("transaction %d has no id", i)
		} else if _, dup := seen[t.ID]; dup {
			add("duplicate transaction id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			add("transaction %q date %q", t.ID, t.Date)
		}
		if t.Type != TypeIncome && t.Type != TypeExpense {
			add("transaction %q type %q", t.ID, t.Type)
		}
		if t.Status != StatusPending && t.Status != StatusCompleted {
			add("transaction %q status %q", t.ID, t.Status)
		}
		if t.Amount.IsNegative() {
			add("transaction %q amount must not be negative", t.ID)
		}
	}

	seen = make(map[string]struct{}, len(s.Categories))
	for i, c := range s.Categories {
		if c.ID == "" {
			add("category %d has no id", i)
		} else if _, dup := seen[c.ID]; dup {
			add("duplicate category id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Type != TypeIncome && c.Type != TypeExpense {
			add("category %q type %q", c.ID, c.Type)
		}
		if c.Status != CategoryActive && c.Status != CategoryInactive {
			add("category %q status %q", c.ID, c.Status)
		}
		if c.MonthlyLimit != nil && c.MonthlyLimit.IsNegative() {
			add("category %q monthlyLimit must not be negative", c.ID)
		}
	}

	seen = make(map[string]struct{}, len(s.Goals))
	for i, g := range s.Goals {
		if g.ID == "" {
			add("goal %d has no id", i)
		} else if _, dup := seen[g.ID]; dup {
			add("duplicate goal id %q", g.ID)
		}
		seen[g.ID] = struct{}{}
		if g.Status != GoalInProgress && g.Status != GoalCompleted {
			add("goal %q status %q", g.ID, g.Status)
		}
		if g.CurrentValue.IsNegative() {
			add("goal %q currentValue must not be negative", g.ID)
		}
	}

	return errors.Join(errs...)
}
