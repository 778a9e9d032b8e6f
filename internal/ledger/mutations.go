package ledger

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// Update and delete calls for an id that does not exist are no-ops: nothing
// is written and nil is returned. A concurrent delete is expected to lose
// the race this way.

func transactionID(t model.Transaction) string { return t.ID }
func categoryID(c model.Category) string       { return c.ID }
func goalID(g model.Goal) string               { return g.ID }

// AddTransaction appends a new transaction and returns its id.
func (s *Store) AddTransaction(ctx context.Context, draft model.TransactionDraft) (string, error) {
	var id string
	err := s.mutate(ctx, Event{Kind: EventAdded, Entity: EntityTransaction}, func(ev *Event) bool {
		id = s.newIDLocked(hasID(s.state.Transactions, transactionID))
		ev.ID = id
		s.state.Transactions = append(s.state.Transactions, draft.WithID(id))
		return true
	})
	return id, err
}

// AddTransactions appends several transactions with a single write.
func (s *Store) AddTransactions(ctx context.Context, drafts []model.TransactionDraft) ([]string, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(drafts))
	err := s.mutate(ctx, Event{Kind: EventAdded, Entity: EntityTransaction, Count: len(drafts)}, func(*Event) bool {
		for _, d := range drafts {
			id := s.newIDLocked(hasID(s.state.Transactions, transactionID))
			s.state.Transactions = append(s.state.Transactions, d.WithID(id))
			ids = append(ids, id)
		}
		return true
	})
	return ids, err
}

// UpdateTransaction merges patch into the transaction with the given id.
func (s *Store) UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) error {
	return s.mutate(ctx, Event{Kind: EventUpdated, Entity: EntityTransaction, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Transactions, id, transactionID)
		if i < 0 {
			return false
		}
		patch.Apply(&s.state.Transactions[i])
		return true
	})
}

// DeleteTransaction removes the transaction with the given id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.mutate(ctx, Event{Kind: EventDeleted, Entity: EntityTransaction, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Transactions, id, transactionID)
		if i < 0 {
			return false
		}
		s.state.Transactions = slices.Delete(s.state.Transactions, i, i+1)
		return true
	})
}

// Transaction returns a copy of the transaction with the given id.
func (s *Store) Transaction(id string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexByID(s.state.Transactions, id, transactionID)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.state.Transactions[i], true
}

// AddCategory appends a new category and returns its id.
func (s *Store) AddCategory(ctx context.Context, draft model.CategoryDraft) (string, error) {
	var id string
	err := s.mutate(ctx, Event{Kind: EventAdded, Entity: EntityCategory}, func(ev *Event) bool {
		id = s.newIDLocked(hasID(s.state.Categories, categoryID))
		ev.ID = id
		s.state.Categories = append(s.state.Categories, draft.WithID(id))
		return true
	})
	return id, err
}

// UpdateCategory merges patch into the category with the given id.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	return s.mutate(ctx, Event{Kind: EventUpdated, Entity: EntityCategory, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Categories, id, categoryID)
		if i < 0 {
			return false
		}
		patch.Apply(&s.state.Categories[i])
		return true
	})
}

// DeleteCategory removes the category with the given id.
// Transactions referencing it are left untouched.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.mutate(ctx, Event{Kind: EventDeleted, Entity: EntityCategory, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Categories, id, categoryID)
		if i < 0 {
			return false
		}
		s.state.Categories = slices.Delete(s.state.Categories, i, i+1)
		return true
	})
}

// Category returns a copy of the category with the given id.
func (s *Store) Category(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.FindCategory(id)
	if !ok {
		return model.Category{}, false
	}
	return c.Clone(), true
}

// AddGoal appends a new goal and returns its id.
func (s *Store) AddGoal(ctx context.Context, draft model.GoalDraft) (string, error) {
	var id string
	err := s.mutate(ctx, Event{Kind: EventAdded, Entity: EntityGoal}, func(ev *Event) bool {
		id = s.newIDLocked(hasID(s.state.Goals, goalID))
		ev.ID = id
		s.state.Goals = append(s.state.Goals, draft.WithID(id))
		return true
	})
	return id, err
}

// UpdateGoal merges patch into the goal with the given id.
func (s *Store) UpdateGoal(ctx context.Context, id string, patch model.GoalPatch) error {
	return s.mutate(ctx, Event{Kind: EventUpdated, Entity: EntityGoal, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Goals, id, goalID)
		if i < 0 {
			return false
		}
		patch.Apply(&s.state.Goals[i])
		return true
	})
}

// DeleteGoal removes the goal with the given id.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return s.mutate(ctx, Event{Kind: EventDeleted, Entity: EntityGoal, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Goals, id, goalID)
		if i < 0 {
			return false
		}
		s.state.Goals = slices.Delete(s.state.Goals, i, i+1)
		return true
	})
}

// ContributeToGoal adds amount to the goal's current value.
// The read and the write happen under one lock, so concurrent contributions add up.
func (s *Store) ContributeToGoal(ctx context.Context, id string, amount decimal.Decimal) error {
	return s.mutate(ctx, Event{Kind: EventUpdated, Entity: EntityGoal, ID: id}, func(*Event) bool {
		i := indexByID(s.state.Goals, id, goalID)
		if i < 0 {
			return false
		}
		s.state.Goals[i].CurrentValue = s.state.Goals[i].CurrentValue.Add(amount)
		return true
	})
}

// Goal returns a copy of the goal with the given id.
func (s *Store) Goal(id string) (model.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexByID(s.state.Goals, id, goalID)
	if i < 0 {
		return model.Goal{}, false
	}
	return s.state.Goals[i], true
}

// UpdateUser merges patch into the user profile.
func (s *Store) UpdateUser(ctx context.Context, patch model.UserPatch) error {
	return s.mutate(ctx, Event{Kind: EventUpdated, Entity: EntityUser}, func(*Event) bool {
		patch.Apply(&s.state.User)
		return true
	})
}

// UpdateSettings merges patch into the settings.
func (s *Store) UpdateSettings(ctx context.Context, patch model.SettingsPatch) error {
	return s.mutate(ctx, Event{Kind: EventUpdated, Entity: EntitySettings}, func(*Event) bool {
		patch.Apply(&s.state.Settings)
		return true
	})
}
