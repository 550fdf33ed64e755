package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/storage"
	"taskmaster/internal/view"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "taskmaster")
	path := filepath.Join(dir, DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	assert.Equal(t, storage.DefaultKey, cfg.BlobKey)
	assert.Equal(t, "q", cfg.Keys.Quit)
	assert.FileExists(t, path)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateKeepsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := "default_filter = \"active\"\n\n[keys]\nquit = \"x\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, view.FilterActive, cfg.Filter())
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOrCreateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = "), 0o644))
	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestFilterFallsBackToAll(t *testing.T) {
	assert.Equal(t, view.FilterAll, Config{DefaultFilter: "someday"}.Filter())
	assert.Equal(t, view.FilterCompleted, Config{DefaultFilter: "Completed"}.Filter())
}

func TestResolveConfigPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}
