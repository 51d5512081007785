package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calentry/internal/ics"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, 5, cfg.DefaultPageSize)
	assert.Equal(t, ics.DefaultProdID, cfg.ProdID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Listen = "0.0.0.0:9090"
	cfg.DefaultPageSize = 20
	cfg.ExportCron = "*/15 * * * *"
	cfg.ExportPath = "/tmp/events.ics"
	cfg.BasicAuth = &BasicAuthConfig{Username: "cal", Password: "entry"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Listen, loaded.Listen)
	assert.Equal(t, cfg.DefaultPageSize, loaded.DefaultPageSize)
	assert.Equal(t, cfg.ExportCron, loaded.ExportCron)
	assert.Equal(t, cfg.ExportPath, loaded.ExportPath)
	require.NotNil(t, loaded.BasicAuth)
	assert.Equal(t, "cal", loaded.BasicAuth.Username)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{DefaultPageSize: 7}
	cfg.Normalize()

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, 5, cfg.DefaultPageSize, "page size outside 5/10/20 falls back")
	assert.Equal(t, ics.DefaultProdID, cfg.ProdID)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
