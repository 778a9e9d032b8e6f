package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryOptions {
	return RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		op        func(calls *int) error
		wantIs    error
		name      string
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			op:        func(*int) error { return nil },
			wantCalls: 1,
		},
		{
			name: "succeeds after transient failure",
			op: func(calls *int) error {
				if *calls < 2 {
					return errBoom
				}
				return nil
			},
			wantCalls: 2,
		},
		{
			name:      "exhausts attempts",
			op:        func(*int) error { return errBoom },
			wantCalls: 3,
			wantIs:    ErrMaxRetries,
		},
		{
			name:      "permanent error stops immediately",
			op:        func(*int) error { return Permanent(errBoom) },
			wantCalls: 1,
			wantIs:    errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return tt.op(&calls)
			}, fastRetry())

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantIs == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastRetry()
	opts.InitialDelay = time.Hour
	opts.MaxDelay = time.Hour

	err := WithRetry(ctx, func() error { return errors.New("fail") }, opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryBackoff(t *testing.T) {
	opts := RetryOptions{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 3}.normalized()
	assert.Equal(t, 3, opts.MaxAttempts)

	tests := []struct {
		err     error
		want    time.Duration
		attempt int
	}{
		{attempt: 1, want: 100 * time.Millisecond},
		{attempt: 2, want: 300 * time.Millisecond},
		{attempt: 3, want: 900 * time.Millisecond},
		{attempt: 4, want: time.Second},
		{attempt: 1, err: ErrRateLimit, want: time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, opts.backoff(tt.attempt, tt.err), "attempt %d err %v", tt.attempt, tt.err)
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(Permanent(ErrServiceUnavailable)))
}

func TestUserMessage(t *testing.T) {
	inner := errors.New("permission denied")
	err := fmt.Errorf("opening store: %w", NewUserError("Could not open the budget", inner))

	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Could not open the budget", msg)

	_, ok = UserMessage(inner)
	assert.False(t, ok)
}

func TestUserError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewUserError("could not save budget", inner)

	assert.Equal(t, "could not save budget: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "no cause", NewUserError("no cause", nil).Error())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	slog.New(handler).Info("snapshot saved", "key", "budget_state")
	assert.Contains(t, buf.String(), `"msg":"snapshot saved"`)
	assert.Contains(t, buf.String(), `"key":"budget_state"`)

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
