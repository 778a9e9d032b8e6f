package model

import "github.com/shopspring/decimal"

// ProfileType distinguishes a personal ledger from a household one.
type ProfileType string

// Profile types.
const (
	ProfileIndividual ProfileType = "individual"
	ProfileFamily     ProfileType = "family"
)

// DefaultAlertThreshold is the utilization percentage used when settings carry none.
const DefaultAlertThreshold = 80

// User is the single profile of the ledger.
// BaseSalary is the planned monthly income, independent of recorded income.
type User struct {
	Name        string          `json:"name"`
	ProfileType ProfileType     `json:"profileType"`
	Currency    string          `json:"currency"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	IsActive    bool            `json:"isActive"`
}

// Settings holds reporting preferences.
type Settings struct {
	// StartMonth is the fiscal start month, 0 (January) to 11.
	StartMonth int `json:"startMonth"`
	// AlertThreshold is the utilization percentage at which a category is
	// flagged. Zero means unset; edits must pick a value in (0, 100].
	AlertThreshold float64 `json:"alertThreshold"`
}

// Threshold returns the alert threshold, or DefaultAlertThreshold when unset.
func (s Settings) Threshold() float64 {
	if s.AlertThreshold <= 0 {
		return DefaultAlertThreshold
	}
	return s.AlertThreshold
}
