package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaz/bolso/internal/storage"
)

func openStore(t *testing.T, path string) *storage.Store {
	t.Helper()

	store, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStore_GetAbsentKey(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "bolso.db"))

	value, err := store.Get(context.Background(), "bolso_transactions")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestStore_SetGetDelete(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "bolso.db"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "bolso_goals", []byte(`[{"id":"goal-1"}]`)))

	value, err := store.Get(ctx, "bolso_goals")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"goal-1"}]`), value)

	// Set replaces the value whole.
	require.NoError(t, store.Set(ctx, "bolso_goals", []byte(`[]`)))

	value, err = store.Get(ctx, "bolso_goals")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)

	require.NoError(t, store.Delete(ctx, "bolso_goals"))

	value, err = store.Get(ctx, "bolso_goals")
	require.NoError(t, err)
	assert.Nil(t, value)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "bolso_goals"))
}

func TestStore_ValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bolso.db")
	ctx := context.Background()

	first, err := storage.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "bolso_budgets", []byte(`[{"id":"budget-1"}]`)))
	require.NoError(t, first.Close())

	second := openStore(t, path)

	value, err := second.Get(ctx, "bolso_budgets")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"budget-1"}]`), value)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "bolso.db")

	store := openStore(t, path)

	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))
}
