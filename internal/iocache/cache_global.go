package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// InitCaching initializes the global cache manager.
// An empty backend leaves caching disabled.
func InitCaching(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			backend = schema.NoneBackend
		}
		store, err := NewCacheStore(cacheTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize caching: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.store = store
		Manager.snapshot = NewSnapshotCache(store)
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// CacheStatus returns the store status along with the snapshot it currently holds.
func CacheStatus(mgr contract.CacheManager, now time.Time) (schema.CacheStatus, error) {
	store := mgr.GetCacheStore()
	if store == nil {
		return schema.CacheStatus{}, fmt.Errorf("cache is not initialized")
	}
	status, err := store.GetStatus()
	if err != nil {
		return status, err
	}
	if cache, ok := mgr.GetSnapshotStore().(*SnapshotCache); ok {
		if snapshot, found := cache.Peek(); found {
			status.SnapshotRepo = snapshot.Owner + "/" + snapshot.Repo
			status.SnapshotFresh = cache.IsFresh(snapshot, now)
		}
	}
	return status, nil
}

// ClearCache clears the cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverFor(backend)
		return clearSQLTable(driverName, connStr, cacheTable, backend)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
