package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, "classreg.db", cfg.SQLitePath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.Nil(t, cfg.CSRFKey)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CLASSREG_PORT", "9090")
	t.Setenv("CLASSREG_STORAGE_TYPE", "SQLite")
	t.Setenv("CLASSREG_ADMIN_PASSWORD", "hunter2")
	t.Setenv("CLASSREG_BASE_URL", "https://coop.example/")
	t.Setenv("CLASSREG_LOG_LEVEL", "debug")
	t.Setenv("CLASSREG_CSRF_KEY", strings.Repeat("ab", 32))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, "hunter2", cfg.AdminPassword)
	assert.Equal(t, "https://coop.example", cfg.BaseURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Len(t, cfg.CSRFKey, 32)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CLASSREG_REDIS_URL=redis://cache:6379/2\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CLASSREG_REDIS_URL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
}

func TestEnvOverridesDotEnvFile(t *testing.T) {
	t.Setenv("CLASSREG_SQLITE_PATH", "/data/from-env.db")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CLASSREG_SQLITE_PATH=/data/from-file.db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.db", cfg.SQLitePath)
}

func TestMissingDotEnvFileIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown storage", "CLASSREG_STORAGE_TYPE", "mongo"},
		{"port out of range", "CLASSREG_PORT", "70000"},
		{"short csrf key", "CLASSREG_CSRF_KEY", "too-short"},
		{"bad log level", "CLASSREG_LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
