package model

import "github.com/shopspring/decimal"

// CategoryStatus indicates whether a category is offered for new entries.
type CategoryStatus string

const (
	// CategoryActive categories participate in budget planning.
	CategoryActive CategoryStatus = "active"
	// CategoryInactive categories are kept for history only.
	CategoryInactive CategoryStatus = "inactive"
)

// Category is a grouping label with an optional monthly spending ceiling.
type Category struct {
	MonthlyLimit *decimal.Decimal `json:"monthlyLimit,omitempty"`
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         TransactionType  `json:"type"`
	Status       CategoryStatus   `json:"status"`
	Color        string           `json:"color,omitempty"`
}

// Limit returns the monthly limit, or zero when none is set.
// Zero and absent both mean "unlimited".
func (c Category) Limit() decimal.Decimal {
	if c.MonthlyLimit == nil {
		return decimal.Zero
	}
	return *c.MonthlyLimit
}

// HasLimit reports whether the category carries a positive monthly limit.
func (c Category) HasLimit() bool {
	return c.Limit().IsPositive()
}

// IsActive reports whether the category is active.
func (c Category) IsActive() bool {
	return c.Status == CategoryActive
}

// IsExpense reports whether the category groups expenses.
func (c Category) IsExpense() bool {
	return c.Type == TypeExpense
}

// CategoryDraft holds the fields of a category that does not have an id yet.
type CategoryDraft struct {
	MonthlyLimit *decimal.Decimal `json:"monthlyLimit"`
	Name         string           `json:"name"`
	Type         TransactionType  `json:"type"`
	Status       CategoryStatus   `json:"status"`
	Color        string           `json:"color"`
}

// WithID materializes the draft into a category.
func (d CategoryDraft) WithID(id string) Category {
	return Category{
		ID:           id,
		Name:         d.Name,
		Type:         d.Type,
		Status:       d.Status,
		Color:        d.Color,
		MonthlyLimit: cloneDecimal(d.MonthlyLimit),
	}
}

// Clone returns a copy of c that shares no pointers with it.
func (c Category) Clone() Category {
	c.MonthlyLimit = cloneDecimal(c.MonthlyLimit)
	return c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
