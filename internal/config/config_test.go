package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playwise/internal/lookup"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "first", cfg.DedupePolicy)
	assert.Equal(t, 10, cfg.SkipCapacity)
	assert.Equal(t, 50, cfg.UndoHistory)
	assert.Equal(t, "", cfg.ValkeyURL)
	assert.Equal(t, 5*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, lookup.KeepFirst, cfg.Policy())
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DEDUPE_POLICY", "latest")
	os.Setenv("SKIP_CAPACITY", "25")
	os.Setenv("SNAPSHOT_TTL", "30s")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DEDUPE_POLICY")
		os.Unsetenv("SKIP_CAPACITY")
		os.Unsetenv("SNAPSHOT_TTL")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, lookup.KeepLatest, cfg.Policy())
	assert.Equal(t, 25, cfg.SkipCapacity)
	assert.Equal(t, 30*time.Second, cfg.SnapshotTTL)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	os.Setenv("DEDUPE_POLICY", "newest")
	defer os.Unsetenv("DEDUPE_POLICY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEDUPE_POLICY")
}

func TestLoad_InvalidCapacity(t *testing.T) {
	os.Setenv("SKIP_CAPACITY", "0")
	defer os.Unsetenv("SKIP_CAPACITY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKIP_CAPACITY")
}

func TestLoad_InvalidUndoHistory(t *testing.T) {
	os.Setenv("UNDO_HISTORY", "-1")
	defer os.Unsetenv("UNDO_HISTORY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNDO_HISTORY")
}
