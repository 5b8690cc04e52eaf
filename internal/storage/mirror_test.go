package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wasteland/internal/config"
	"github.com/jwebster45206/wasteland/pkg/save"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

func TestOpenMirror(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupTestRedis(t)

	m, err := OpenMirror(ctx, &config.Config{SaveMirror: "none"}, rdb)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = OpenMirror(ctx, &config.Config{SaveMirror: "redis"}, rdb)
	require.NoError(t, err)
	assert.Same(t, rdb, m)

	_, err = OpenMirror(ctx, &config.Config{SaveMirror: "redis"}, nil)
	assert.Error(t, err)

	_, err = OpenMirror(ctx, &config.Config{SaveMirror: "ftp"}, rdb)
	assert.Error(t, err)
}

func TestTieredSQLiteWithRedisMirror(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	local, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	defer local.Close()

	p := save.NewTiered(local, testLogger(), save.Options{Mirror: rdb, Timeout: time.Second})
	defer p.Close(ctx)

	snap := &survival.Snapshot{
		PlayerName: "Rook",
		Health:     80,
		Day:        6,
		PlayerUID:  "0d6a3c1e-6a5e-4a8e-9f43-2b9d1f6c7e11",
		SavedAt:    time.Now().UTC(),
	}
	require.NoError(t, p.SaveSnapshot(ctx, snap))
	require.NoError(t, p.Flush(ctx))
	assert.True(t, mr.Exists("wasteland:save:"+snap.PlayerUID))

	// A mirror outage must not break loading.
	mr.Close()
	got, err := p.Load(ctx, snap.PlayerUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6, got.Day)
}
