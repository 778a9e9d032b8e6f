// Package common holds the error kinds, retry policy and logger setup shared
// by the budget packages.
package common

import (
	"context"
	"errors"
)

// Error kinds wrapped with %w so callers can branch with errors.Is.
var (
	// ErrNotFound means a transaction, category or goal id matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrServiceUnavailable and ErrRateLimit come from remote backends and are retried.
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimit          = errors.New("rate limit exceeded")

	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError pairs an underlying failure with the sentence printed to the user.
// The wrapped error is still reachable through errors.Is and errors.As.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return e.UserMessage + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a message meant for the terminal.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}

// UserMessage returns the outermost user-facing message in err's chain.
func UserMessage(err error) (string, bool) {
	var userErr *UserError
	if !errors.As(err, &userErr) {
		return "", false
	}
	return userErr.UserMessage, true
}

// IsRetryable reports whether a failed remote call is worth another attempt.
// An explicit RetryableError decides first; otherwise transient kinds retry.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrRateLimit),
		errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
