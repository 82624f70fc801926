// Package storagetest holds the behaviour every storage.KV backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/boardfoot/internal/storage"
)

// Run exercises kv against the common KV contract. kv must start empty.
func Run(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, found, err := kv.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "savedOrders", `[{"id":"a"}]`))
		v, found, err := kv.Get(ctx, "savedOrders")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"a"}]`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "workInProgress", "one"))
		require.NoError(t, kv.Set(ctx, "workInProgress", "two"))
		v, found, err := kv.Get(ctx, "workInProgress")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "two", v)
	})

	t.Run("unicode and empty values", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "symbols", `8/4" × 6" × 8'`))
		v, _, err := kv.Get(ctx, "symbols")
		require.NoError(t, err)
		assert.Equal(t, `8/4" × 6" × 8'`, v)

		require.NoError(t, kv.Set(ctx, "blank", ""))
		v, found, err := kv.Get(ctx, "blank")
		require.NoError(t, err)
		assert.True(t, found, "an empty value is still present")
		assert.Empty(t, v)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "gone", "x"))
		require.NoError(t, kv.Remove(ctx, "gone"))
		_, found, err := kv.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, kv.Remove(ctx, "gone"), "removing a missing key is a no-op")
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, bad := range []string{"", "  ", "../escape", "/abs", "a/../b"} {
			err := kv.Set(ctx, bad, "x")
			assert.True(t, errors.Is(err, storage.ErrInvalidKey), "key %q: %v", bad, err)
			_, _, err = kv.Get(ctx, bad)
			assert.True(t, errors.Is(err, storage.ErrInvalidKey), "key %q: %v", bad, err)
		}
	})
}
