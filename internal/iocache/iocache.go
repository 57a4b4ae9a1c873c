// Package iocache persists cache entries and the last analysis snapshot.
package iocache

import (
	"sync"

	"github.com/huangsam/repopulse/internal/contract"
)

// CacheStoreManager manages the cache store and the snapshot cache built on it.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	store        contract.CacheStore
	snapshot     contract.SnapshotStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCacheStore returns the key/value CacheStore.
func (mgr *CacheStoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// GetSnapshotStore returns the last-analysis SnapshotStore.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}
