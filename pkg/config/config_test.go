package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.True(t, cfg.Dict.UseSeed)

	w := cfg.Ranker.Weights
	sum := w.Relevance + w.Context + w.Preference + w.Quality + w.Novelty
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Server.MaxLimit = 32
	cfg.Ranker.Weights.Quality = 0.2
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 32, loaded.Server.MaxLimit)
	assert.InDelta(t, 0.2, loaded.Ranker.Weights.Quality, 1e-9)
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_limit = 16\n"), 0644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.Server.MaxLimit)
	assert.Equal(t, DefaultConfig().Server.MinPrefix, loaded.Server.MinPrefix)
	assert.True(t, loaded.Dict.UseSeed)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.MaxLimit, cfg.Server.MaxLimit)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
