package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requestline.yaml")
	data := []byte("listen: \":9000\"\ndb_path: /tmp/r.db\npoll_seconds: 2\nwebhook_url: https://example.com/hook\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "/tmp/r.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.PollSeconds)
	assert.Equal(t, "https://example.com/hook", cfg.WebhookURL)
	// Unset keys keep their defaults.
	assert.Equal(t, "http://localhost:8080", cfg.APIBase)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requestline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9000\"\n"), 0o644))

	t.Setenv("REQUESTLINE_LISTEN", ":7070")
	t.Setenv("REQUESTLINE_API", "http://api.internal:8080")
	t.Setenv("REQUESTLINE_POLL_SECONDS", "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, "http://api.internal:8080", cfg.APIBase)
	assert.Equal(t, 30, cfg.PollSeconds)
}

func TestBadEnvPollIgnored(t *testing.T) {
	t.Setenv("REQUESTLINE_POLL_SECONDS", "not-a-number")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().PollSeconds, cfg.PollSeconds)
}

func TestNonPositivePollFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requestline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_seconds: -3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().PollSeconds, cfg.PollSeconds)
}

func TestMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requestline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unbalanced\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPollInterval(t *testing.T) {
	cfg := Config{PollSeconds: 7}
	assert.Equal(t, 7*time.Second, cfg.PollInterval())
}
