package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is wrapped by every rejection of a draft or patch.
// The state store accepts anything; callers that take user input check it first.
var ErrInvalidInput = errors.New("invalid input")

type inputErrors []error

func (e *inputErrors) add(format string, args ...any) {
	*e = append(*e, fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...))
}

func (e inputErrors) join() error {
	return errors.Join(e...)
}

func (e *inputErrors) date(field, value string) {
	if _, err := time.Parse(DateLayout, value); err != nil {
		e.add("%s %q is not a YYYY-MM-DD date", field, value)
	}
}

func (e *inputErrors) txType(field string, value TransactionType) {
	if value != TypeIncome && value != TypeExpense {
		e.add("%s %q must be income or expense", field, value)
	}
}

func (e *inputErrors) nonNegative(field string, value decimal.Decimal) {
	if value.IsNegative() {
		e.add("%s must not be negative", field)
	}
}

func (e *inputErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add("%s is required", field)
	}
}

// Validate checks a new transaction.
func (d TransactionDraft) Validate() error {
	var errs inputErrors
	errs.date("date", d.Date)
	errs.required("description", d.Description)
	errs.txType("type", d.Type)
	if d.Status != StatusPending && d.Status != StatusCompleted {
		errs.add("status %q must be pending or completed", d.Status)
	}
	errs.nonNegative("amount", d.Amount)
	return errs.join()
}

// Validate checks the fields set in p.
func (p TransactionPatch) Validate() error {
	var errs inputErrors
	if p.Date != nil {
		errs.date("date", *p.Date)
	}
	if p.Description != nil {
		errs.required("description", *p.Description)
	}
	if p.Type != nil {
		errs.txType("type", *p.Type)
	}
	if p.Status != nil && *p.Status != StatusPending && *p.Status != StatusCompleted {
		errs.add("status %q must be pending or completed", *p.Status)
	}
	if p.Amount != nil {
		errs.nonNegative("amount", *p.Amount)
	}
	return errs.join()
}

func (e *inputErrors) categoryStatus(value CategoryStatus) {
	if value != CategoryActive && value != CategoryInactive {
		e.add("status %q must be active or inactive", value)
	}
}

// Validate checks a new category.
func (d CategoryDraft) Validate() error {
	var errs inputErrors
	errs.required("name", d.Name)
	errs.txType("type", d.Type)
	errs.categoryStatus(d.Status)
	if d.MonthlyLimit != nil {
		errs.nonNegative("monthlyLimit", *d.MonthlyLimit)
	}
	return errs.join()
}

// Validate checks the fields set in p.
func (p CategoryPatch) Validate() error {
	var errs inputErrors
	if p.Name != nil {
		errs.required("name", *p.Name)
	}
	if p.Type != nil {
		errs.txType("type", *p.Type)
	}
	if p.Status != nil {
		errs.categoryStatus(*p.Status)
	}
	if p.MonthlyLimit != nil {
		errs.nonNegative("monthlyLimit", *p.MonthlyLimit)
	}
	return errs.join()
}

func (e *inputErrors) goalStatus(value GoalStatus) {
	if value != GoalInProgress && value != GoalCompleted {
		e.add("status %q must be in_progress or completed", value)
	}
}

// Validate checks a new goal.
func (d GoalDraft) Validate() error {
	var errs inputErrors
	errs.required("name", d.Name)
	errs.date("deadline", d.Deadline)
	errs.goalStatus(d.Status)
	errs.nonNegative("targetValue", d.TargetValue)
	errs.nonNegative("currentValue", d.CurrentValue)
	errs.nonNegative("monthlyPlannedValue", d.MonthlyPlannedValue)
	return errs.join()
}

// Validate checks the fields set in p.
func (p GoalPatch) Validate() error {
	var errs inputErrors
	if p.Name != nil {
		errs.required("name", *p.Name)
	}
	if p.Deadline != nil {
		errs.date("deadline", *p.Deadline)
	}
	if p.Status != nil {
		errs.goalStatus(*p.Status)
	}
	if p.TargetValue != nil {
		errs.nonNegative("targetValue", *p.TargetValue)
	}
	if p.CurrentValue != nil {
		errs.nonNegative("currentValue", *p.CurrentValue)
	}
	if p.MonthlyPlannedValue != nil {
		errs.nonNegative("monthlyPlannedValue", *p.MonthlyPlannedValue)
	}
	return errs.join()
}

// Validate checks the fields set in p.
func (p UserPatch) Validate() error {
	var errs inputErrors
	if p.ProfileType != nil && *p.ProfileType != ProfileIndividual && *p.ProfileType != ProfileFamily {
		errs.add("profileType %q must be individual or family", *p.ProfileType)
	}
	if p.Currency != nil {
		errs.required("currency", *p.Currency)
	}
	if p.BaseSalary != nil {
		errs.nonNegative("baseSalary", *p.BaseSalary)
	}
	return errs.join()
}

// Validate checks the fields set in p.
func (p SettingsPatch) Validate() error {
	var errs inputErrors
	if p.StartMonth != nil && (*p.StartMonth < 0 || *p.StartMonth > 11) {
		errs.add("startMonth %d out of range 0-11", *p.StartMonth)
	}
	if p.AlertThreshold != nil && (*p.AlertThreshold <= 0 || *p.AlertThreshold > 100) {
		errs.add("alertThreshold %.2f must be above 0 and at most 100", *p.AlertThreshold)
	}
	return errs.join()
}
