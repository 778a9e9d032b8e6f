package model

import "github.com/shopspring/decimal"

// Patches carry partial updates: a nil field leaves the target untouched.
// Identifiers are never patchable.

// TransactionPatch is a partial update of a transaction.
type TransactionPatch struct {
	Date          *string            `json:"date,omitempty"`
	Description   *string            `json:"description,omitempty"`
	CategoryID    *string            `json:"categoryId,omitempty"`
	Type          *TransactionType   `json:"type,omitempty"`
	Status        *TransactionStatus `json:"status,omitempty"`
	PaymentMethod *PaymentMethod     `json:"paymentMethod,omitempty"`
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
}

// Apply overwrites the fields set in p.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.PaymentMethod != nil {
		t.PaymentMethod = *p.PaymentMethod
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
}

// CategoryPatch is a partial update of a category.
// Setting MonthlyLimit to zero is equivalent to removing the limit.
type CategoryPatch struct {
	Name         *string          `json:"name,omitempty"`
	Type         *TransactionType `json:"type,omitempty"`
	Status       *CategoryStatus  `json:"status,omitempty"`
	Color        *string          `json:"color,omitempty"`
	MonthlyLimit *decimal.Decimal `json:"monthlyLimit,omitempty"`
}

// Apply overwrites the fields set in p.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.MonthlyLimit != nil {
		c.MonthlyLimit = cloneDecimal(p.MonthlyLimit)
	}
}

// GoalPatch is a partial update of a goal.
type GoalPatch struct {
	Name                *string          `json:"name,omitempty"`
	Deadline            *string          `json:"deadline,omitempty"`
	Status              *GoalStatus      `json:"status,omitempty"`
	TargetValue         *decimal.Decimal `json:"targetValue,omitempty"`
	CurrentValue        *decimal.Decimal `json:"currentValue,omitempty"`
	MonthlyPlannedValue *decimal.Decimal `json:"monthlyPlannedValue,omitempty"`
}

// Apply overwrites the fields set in p.
func (p GoalPatch) Apply(g *Goal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.TargetValue != nil {
		g.TargetValue = *p.TargetValue
	}
	if p.CurrentValue != nil {
		g.CurrentValue = *p.CurrentValue
	}
	if p.MonthlyPlannedValue != nil {
		g.MonthlyPlannedValue = *p.MonthlyPlannedValue
	}
}

// UserPatch is a partial update of the user profile.
type UserPatch struct {
	Name        *string          `json:"name,omitempty"`
	ProfileType *ProfileType     `json:"profileType,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	BaseSalary  *decimal.Decimal `json:"baseSalary,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// Apply overwrites the fields set in p.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.ProfileType != nil {
		u.ProfileType = *p.ProfileType
	}
	if p.Currency != nil {
		u.Currency = *p.Currency
	}
	if p.BaseSalary != nil {
		u.BaseSalary = *p.BaseSalary
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// SettingsPatch is a partial update of the settings.
type SettingsPatch struct {
	StartMonth     *int     `json:"startMonth,omitempty"`
	AlertThreshold *float64 `json:"alertThreshold,omitempty"`
}

// Apply overwrites the fields set in p.
func (p SettingsPatch) Apply(s *Settings) {
	if p.StartMonth != nil {
		s.StartMonth = *p.StartMonth
	}
	if p.AlertThreshold != nil {
		s.AlertThreshold = *p.AlertThreshold
	}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T {
	return &v
}
