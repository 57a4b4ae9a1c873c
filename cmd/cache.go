package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfig loads the cache backend settings without validating anything else.
func cacheConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads minimal configuration and opens the cache.
// This is used by commands that need cache access without full shared setup.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := cacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheConfigSetup loads the cache settings without opening the cache, so that
// migrations can run on a fresh database and clearing does not hold the file open.
func cacheConfigSetup(_ *cobra.Command, _ []string) error {
	return cacheConfig()
}

// sqliteCachePath returns the SQLite file in use: the connection string when given, else the default.
func sqliteCachePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return iocache.GetDBFilePath()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands, so no repository or token is needed.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cache of the last analysis",
	Long: `Manage the cache that keeps the last analysis for one hour.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run cache schema migrations

Examples:
  # Check cache status
  repopulse cache status

  # Use MySQL (set connection string via env variable)
  REPOPULSE_CACHE_BACKEND=mysql REPOPULSE_CACHE_DB_CONNECT="..." repopulse cache status`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, connection state, entry count, table size and
which repository the cached analysis belongs to.`,
	PreRunE: cacheSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := iocache.CacheStatus(cacheManager, time.Now())
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		iocache.PrintCacheStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached data",
	Long: `Delete all cached data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table`,
	PreRunE: cacheConfigSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteCachePath(), cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		cmd.Println("Cache cleared successfully.")
		return nil
	},
}

// cacheMigrateCmd runs the cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations",
	Long: `Apply or roll back the versioned schema of the cache table.

Examples:
  # Migrate to the latest version
  repopulse cache migrate

  # Roll back everything
  repopulse cache migrate --target-version 0`,
	PreRunE: cacheConfigSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		connStr := cfg.CacheDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend {
			connStr = sqliteCachePath()
		}
		return iocache.MigrateCache(os.Stdout, cfg.CacheBackend, connStr, viper.GetInt("target-version"))
	},
}
