// Package model defines the core domain models used throughout the application.
package model

import (
	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction; amounts are always non-negative.
type TransactionType string

const (
	// TypeIncome marks money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money going out.
	TypeExpense TransactionType = "expense"
)

// TransactionStatus indicates whether a transaction has settled.
type TransactionStatus string

const (
	// StatusPending transactions are recorded but do not count toward totals.
	StatusPending TransactionStatus = "pending"
	// StatusCompleted transactions contribute to balance and budget totals.
	StatusCompleted TransactionStatus = "completed"
)

// PaymentMethod is an expense-only convention and is not enforced.
type PaymentMethod string

// Known payment methods.
const (
	PaymentCash            PaymentMethod = "cash"
	PaymentDebit           PaymentMethod = "debit"
	PaymentCredit          PaymentMethod = "credit"
	PaymentInstantTransfer PaymentMethod = "instant_transfer"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// MonthLayout is the month bucket format (the leading 7 characters of a date).
const MonthLayout = "2006-01"

// Transaction represents a single recorded money movement.
type Transaction struct {
	ID            string            `json:"id"`
	Date          string            `json:"date"`
	Description   string            `json:"description"`
	CategoryID    string            `json:"categoryId"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod PaymentMethod     `json:"paymentMethod,omitempty"`
	Amount        decimal.Decimal   `json:"amount"`
}

// IsCompleted reports whether the transaction counts toward totals.
func (t Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// SignedAmount returns +amount for income and -amount for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// MonthKey returns the YYYY-MM bucket of the transaction date.
// Dates shorter than seven characters yield the whole string.
func (t Transaction) MonthKey() string {
	if len(t.Date) < len(MonthLayout) {
		return t.Date
	}
	return t.Date[:len(MonthLayout)]
}

// TransactionDraft holds the fields of a transaction that does not have an id yet.
type TransactionDraft struct {
	Date          string            `json:"date"`
	Description   string            `json:"description"`
	CategoryID    string            `json:"categoryId"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	Amount        decimal.Decimal   `json:"amount"`
}

// WithID materializes the draft into a transaction.
func (d TransactionDraft) WithID(id string) Transaction {
	return Transaction{
		ID:            id,
		Date:          d.Date,
		Description:   d.Description,
		CategoryID:    d.CategoryID,
		Type:          d.Type,
		Status:        d.Status,
		PaymentMethod: d.PaymentMethod,
		Amount:        d.Amount,
	}
}
