// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the server reads
const EnvPrefix = "CLASSREG"

// Storage types
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds server settings
type Config struct {
	Port               int
	StorageType        string
	RedisURL           string
	SQLitePath         string
	AdminPassword      string
	AdminSecret        string
	CSRFKey            []byte
	BaseURL            string
	LogLevel           slog.Level
	SessionIdleTimeout time.Duration
}

// Load reads configuration. When dotEnvPath names an existing file it is
// loaded into the environment first; a missing file is ignored.
func Load(dotEnvPath string) (Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", dotEnvPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", dotEnvPath, err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("port", 8080)
	v.SetDefault("storage_type", StorageMemory)
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("sqlite_path", "classreg.db")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_secret", "")
	v.SetDefault("csrf_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_idle_timeout", 2*time.Hour)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg := Config{
		Port:               v.GetInt("port"),
		StorageType:        strings.ToLower(strings.TrimSpace(v.GetString("storage_type"))),
		RedisURL:           v.GetString("redis_url"),
		SQLitePath:         v.GetString("sqlite_path"),
		AdminPassword:      v.GetString("admin_password"),
		AdminSecret:        v.GetString("admin_secret"),
		BaseURL:            strings.TrimRight(v.GetString("base_url"), "/"),
		SessionIdleTimeout: v.GetDuration("session_idle_timeout"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return Config{}, fmt.Errorf("log_level: %w", err)
	}

	key, err := parseCSRFKey(v.GetString("csrf_key"))
	if err != nil {
		return Config{}, err
	}
	cfg.CSRFKey = key

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port: %d out of range", c.Port)
	}
	if !slices.Contains([]string{StorageMemory, StorageRedis, StorageSQLite}, c.StorageType) {
		return fmt.Errorf("storage_type: unknown value %q", c.StorageType)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session_idle_timeout: must be positive")
	}
	return nil
}

// parseCSRFKey accepts 32 raw bytes or 64 hex characters. Empty disables CSRF protection.
func parseCSRFKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	switch len(raw) {
	case 0:
		return nil, nil
	case 32:
		return []byte(raw), nil
	case 64:
		key, err := hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("csrf_key: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("csrf_key: want 32 bytes or 64 hex characters, got %d characters", len(raw))
	}
}
