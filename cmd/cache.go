package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/iocache"
	"github.com/huangsam/salespulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by analysis commands. This avoids opening the sales
// database for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
	Long: `Manage the cache of query results that speeds up repeated reports.

SalesPulse caches aggregate query results keyed by the query and its filters,
and serves them while they are younger than --cache-ttl.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data
  prune  - Remove entries older than --cache-ttl

Examples:
  # Check cache status
  salespulse cache status

  # Clear cache after reloading sales data
  salespulse cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached results",
	Long: `Delete all cached results from the configured backend.

Use this after loading new sales data when you do not want to wait for the TTL.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  salespulse cache clear

  # Clear MySQL cache (set connection string via env variable)
  SALESPULSE_CACHE_BACKEND=mysql SALESPULSE_CACHE_DB_CONNECT="..." salespulse cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while the store holds it open.
		iocache.CloseStores()
		dbFile := contract.GetCacheDBFilePath()
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.CacheDBConnect != "" {
			dbFile = cfg.CacheDBConnect
		}
		if err := iocache.ClearCache(cfg.CacheBackend, dbFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the result cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  salespulse cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetResultStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// pruner is implemented by cache stores that can drop expired entries.
type pruner interface {
	Prune(cutoff time.Time) (int64, error)
}

// cachePruneCmd drops expired entries.
var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached results older than the TTL",
	Long: `Delete cached results written more than --cache-ttl ago.

Expired entries are never served, but they stay on disk until pruned or cleared.

Examples:
  # Drop entries older than the configured TTL
  salespulse cache prune

  # Drop everything older than one hour
  salespulse cache prune --cache-ttl 1h`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ttl, err := time.ParseDuration(viper.GetString("cache-ttl"))
		if err != nil {
			contract.LogFatal("Invalid cache-ttl", err)
		}
		store, ok := iocache.Manager.GetResultStore().(pruner)
		if !ok {
			fmt.Println("Cache backend does not support pruning.")
			return
		}
		removed, err := store.Prune(time.Now().Add(-ttl))
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		fmt.Printf("Pruned %d expired entries.\n", removed)
	},
}
