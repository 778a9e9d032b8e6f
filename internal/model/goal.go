package model

import "github.com/shopspring/decimal"

// GoalStatus tracks whether a savings goal is still being pursued.
type GoalStatus string

const (
	// GoalInProgress goals are still open.
	GoalInProgress GoalStatus = "in_progress"
	// GoalCompleted goals have been reached or closed by the user.
	GoalCompleted GoalStatus = "completed"
)

// Goal is a savings target tracked toward a deadline.
// CurrentValue is adjusted manually and is not derived from transactions.
type Goal struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Deadline            string          `json:"deadline"`
	Status              GoalStatus      `json:"status"`
	TargetValue         decimal.Decimal `json:"targetValue"`
	CurrentValue        decimal.Decimal `json:"currentValue"`
	MonthlyPlannedValue decimal.Decimal `json:"monthlyPlannedValue"`
}

// GoalDraft holds the fields of a goal that does not have an id yet.
type GoalDraft struct {
	Name                string          `json:"name"`
	Deadline            string          `json:"deadline"`
	Status              GoalStatus      `json:"status"`
	TargetValue         decimal.Decimal `json:"targetValue"`
	CurrentValue        decimal.Decimal `json:"currentValue"`
	MonthlyPlannedValue decimal.Decimal `json:"monthlyPlannedValue"`
}

// WithID materializes the draft into a goal.
func (d GoalDraft) WithID(id string) Goal {
	return Goal{
		ID:                  id,
		Name:                d.Name,
		Deadline:            d.Deadline,
		Status:              d.Status,
		TargetValue:         d.TargetValue,
		CurrentValue:        d.CurrentValue,
		MonthlyPlannedValue: d.MonthlyPlannedValue,
	}
}
