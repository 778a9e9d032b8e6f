// Package storage persists opaque budget snapshots under string keys on
// SQLite, plain files, memory, Firestore or DynamoDB.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Argument errors returned before any backend is touched.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidKey  = errors.New("invalid blob key")
)

// MaxKeyLength keeps keys well inside the Firestore document id and
// DynamoDB partition key limits.
const MaxKeyLength = 128

// Keys double as file names and document ids, so no separators.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString rejects empty or blank constructor and config values.
func validateString(s, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > MaxKeyLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, MaxKeyLength)
	case key == "." || key == "..", !keyPattern.MatchString(key):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// validateCall runs the checks shared by Load and Save on every backend.
func validateCall(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return validateKey(key)
}
