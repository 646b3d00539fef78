package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrations(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "bot.db")

	status, err := MigrateStatus(url)
	require.NoError(t, err)
	assert.False(t, status.Applied)

	require.NoError(t, MigrateUp(url))
	// Second run is a no-op
	require.NoError(t, MigrateUp(url))

	status, err = MigrateStatus(url)
	require.NoError(t, err)
	assert.True(t, status.Applied)
	assert.False(t, status.Dirty)
	assert.Equal(t, uint(2), status.Version)

	db, err := NewSQLiteConnection(context.Background(), SQLitePath(url))
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('guild_configs', 'registrations')`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, MigrateDown(url, "1"))
	status, err = MigrateStatus(url)
	require.NoError(t, err)
	assert.Equal(t, uint(1), status.Version)
}

func TestMigrateDown_InvalidSteps(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "bot.db")
	assert.Error(t, MigrateDown(url, "zero"))
	assert.Error(t, MigrateDown(url, "0"))
}

func TestNewSQLiteConnection_InvalidPath(t *testing.T) {
	_, err := NewSQLiteConnection(context.Background(), "")
	assert.Error(t, err)
}
