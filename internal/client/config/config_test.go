package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout.Duration)
	require.Equal(t, 5*time.Second, cfg.API.AuthCheckTimeout.Duration)
	require.Equal(t, "./tapectl.db", cfg.Database.Path)
	require.Equal(t, slog.LevelInfo, cfg.Log.Level)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://tapetrack.example.com
  timeout: 10s
database:
  path: /tmp/tokens.db
log:
  level: DEBUG
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://tapetrack.example.com", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout.Duration)
	require.Equal(t, "/tmp/tokens.db", cfg.Database.Path)
	require.Equal(t, slog.LevelDebug, cfg.Log.Level)
	// Untouched keys keep defaults.
	require.Equal(t, 5*time.Second, cfg.API.AuthCheckTimeout.Duration)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TAPETRACK_URL", "https://env.example.com")
	path := writeConfig(t, `
api:
  base_url: ${TAPETRACK_URL}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestLoadRejectsEmptyBaseURL(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: ""
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validation")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/no/such/config.yaml")
	require.Error(t, err)
}
