package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBlobStoreContract checks the behavior every BlobStore backend shares.
func runBlobStoreContract(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Load(ctx, "absent")
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		payload := []byte(`{"transactions":[]}`)
		require.NoError(t, store.Save(ctx, "budget_state", payload))

		got, err := store.Load(ctx, "budget_state")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "budget_state", []byte("first")))
		require.NoError(t, store.Save(ctx, "budget_state", []byte("second")))

		got, err := store.Load(ctx, "budget_state")
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "a", []byte("A")))
		require.NoError(t, store.Save(ctx, "b", []byte("B")))

		got, err := store.Load(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "A", string(got))
	})

	t.Run("invalid key", func(t *testing.T) {
		err := store.Save(ctx, "../escape", []byte("x"))
		assert.True(t, errors.Is(err, ErrInvalidKey), "got %v", err)

		_, err = store.Load(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		_, err := store.Load(nil, "budget_state")
		assert.ErrorIs(t, err, ErrNilContext)
	})
}
