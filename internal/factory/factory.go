package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/classreg/internal/config"
	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/dependencies/random"
	"github.com/mcoot/classreg/internal/services/admin"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/registration"
	"github.com/mcoot/classreg/internal/storage"
	"github.com/mcoot/classreg/internal/storage/memory"
	redisstorage "github.com/mcoot/classreg/internal/storage/redis"
	sqlitestorage "github.com/mcoot/classreg/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQLite = config.StorageSQLite
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Catalog  *catalog.Catalog
	Sessions *registration.Manager
	Admin    *admin.Service

	close func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds SQLite settings (required if StorageType is "sqlite")
	SQLiteConfig *sqlitestorage.Config
	// AdminConfig configures the admin gate
	AdminConfig admin.Config
	// SessionConfig configures registration sessions
	// If zero value, defaults to registration.DefaultConfig()
	SessionConfig registration.Config
}

// FromSettings maps loaded server settings onto a factory config
func FromSettings(settings config.Config, logger *slog.Logger) Config {
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = settings.RedisURL

	sqliteCfg := sqlitestorage.DefaultConfig()
	sqliteCfg.Path = settings.SQLitePath
	sqliteCfg.Verbose = settings.LogLevel <= slog.LevelDebug

	adminCfg := admin.DefaultConfig()
	adminCfg.Password = settings.AdminPassword
	adminCfg.Secret = []byte(settings.AdminSecret)

	return Config{
		Logger:        logger,
		StorageType:   settings.StorageType,
		RedisConfig:   &redisCfg,
		SQLiteConfig:  &sqliteCfg,
		AdminConfig:   adminCfg,
		SessionConfig: registration.Config{IdleTimeout: settings.SessionIdleTimeout},
	}
}

// New creates a new application with all dependencies wired and the
// catalog loaded. A failed initial load is logged and leaves the catalog
// empty until the next reload.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	closeStore := func() error { return nil }
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store, closeStore = redisStore, redisStore.Close
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.New(*cfg.SQLiteConfig)
		if err != nil {
			return nil, err
		}
		store, closeStore = sqliteStore, sqliteStore.Close
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app, err := newWithDependencies(store, clk, rnd, cfg.AdminConfig, cfg.SessionConfig, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	app.close = closeStore

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Catalog.Load(ctx); err != nil {
		logger.Warn("initial catalog load failed", "error", err)
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	adminCfg admin.Config,
	sessionCfg registration.Config,
	logger *slog.Logger,
) (*App, error) {
	adminService, err := admin.New(adminCfg, clk, logger)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(store, clk, rnd, logger)
	sessions := registration.NewManager(cat, clk, rnd, logger, sessionCfg)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Logger:   logger,
		Catalog:  cat,
		Sessions: sessions,
		Admin:    adminService,
		close:    func() error { return nil },
	}, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.close()
}

// SweepSessions discards idle registration sessions every interval until
// ctx is done
func (a *App) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sessions.Sweep()
		}
	}
}
