package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
	assert.True(t, cfg.Notifications.Desktop)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`server:
  base_url: https://api.example.org
notifications:
  desktop: false
cache:
  path: /tmp/cc.db
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org", cfg.Server.BaseURL)
	assert.False(t, cfg.Notifications.Desktop)
	assert.Equal(t, "/tmp/cc.db", cfg.Cache.Path)

	// Missing timeout falls back to the default.
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
}

func TestLoadConfigClampsNonPositiveTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  timeout_sec: -1\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &AppConfig{
		Server:        ServerConfig{BaseURL: "https://cc.example.org", TimeoutSec: 10},
		Notifications: NotificationConfig{Desktop: false},
		Cache:         CacheConfig{Path: "/var/lib/cc/cache.db"},
	}
	require.NoError(t, SaveConfig(path, in))

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in.Server.BaseURL, out.Server.BaseURL)
	assert.Equal(t, in.Server.TimeoutSec, out.Server.TimeoutSec)
	assert.Equal(t, in.Notifications.Desktop, out.Notifications.Desktop)
	assert.Equal(t, in.Cache.Path, out.Cache.Path)
}
