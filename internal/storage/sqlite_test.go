package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "saves.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))
	assert.Equal(t, path, store.Path())

	blob, err := store.Load(ctx, "save:p1")
	require.NoError(t, err)
	assert.Nil(t, blob)

	require.NoError(t, store.Save(ctx, "save:p1", []byte(`{"day":1}`)))
	require.NoError(t, store.Save(ctx, "save:p1", []byte(`{"day":2}`)))

	blob, err = store.Load(ctx, "save:p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":2}`, string(blob))

	require.NoError(t, store.Clear(ctx, "save:p1"))
	blob, err = store.Load(ctx, "save:p1")
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "save:p1", []byte(`{"day":9}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	blob, err := reopened.Load(ctx, "save:p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":9}`, string(blob))
}
