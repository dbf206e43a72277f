package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "http://127.0.0.1:19995", cfg.Control.Endpoint)
	assert.True(t, cfg.Media.Download)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Control.Endpoint = "http://127.0.0.1:12345"
	cfg.Media.Download = false
	require.NoError(t, cfg.saveTo(path))

	loaded, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Control.Endpoint, loaded.Control.Endpoint)
	assert.False(t, loaded.Media.Download)
	assert.Equal(t, cfg.Storage.DBPath, loaded.Storage.DBPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := loadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
