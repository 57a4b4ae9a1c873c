package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

const (
	// snapshotKey is the single cache key holding the last analysis.
	snapshotKey = "last_analysis"

	// snapshotVersion is bumped whenever the serialized metrics layout changes.
	snapshotVersion = 1
)

// SnapshotCache keeps the most recent analysis result in a CacheStore.
type SnapshotCache struct {
	store contract.CacheStore
	ttl   time.Duration
}

var _ contract.SnapshotStore = &SnapshotCache{} // Compile-time check

// NewSnapshotCache returns a snapshot cache backed by store with the default freshness window.
func NewSnapshotCache(store contract.CacheStore) *SnapshotCache {
	return &SnapshotCache{store: store, ttl: contract.SnapshotTTL}
}

// Get returns the stored snapshot when it belongs to owner/repo and is still fresh at now.
// Unreadable or outdated entries count as misses.
func (c *SnapshotCache) Get(owner, repo string, now time.Time) (*schema.Snapshot, bool) {
	snapshot, err := c.load()
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			contract.LogDebug("Ignoring unreadable snapshot", err)
		}
		return nil, false
	}
	if !sameRepo(snapshot, owner, repo) || !c.IsFresh(snapshot, now) {
		return nil, false
	}
	return snapshot, true
}

// Peek returns the stored snapshot regardless of repository or age.
func (c *SnapshotCache) Peek() (*schema.Snapshot, bool) {
	snapshot, err := c.load()
	if err != nil {
		return nil, false
	}
	return snapshot, true
}

// Set replaces the stored snapshot.
func (c *SnapshotCache) Set(snapshot *schema.Snapshot) error {
	if snapshot == nil || snapshot.Metrics == nil {
		return fmt.Errorf("snapshot has no metrics")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.store.Set(snapshotKey, data, snapshotVersion, snapshot.CapturedAt.Unix()); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot.
func (c *SnapshotCache) Clear() error {
	return c.store.Delete(snapshotKey)
}

// IsFresh reports whether the snapshot was captured within the freshness window before now.
func (c *SnapshotCache) IsFresh(snapshot *schema.Snapshot, now time.Time) bool {
	if snapshot == nil {
		return false
	}
	age := now.Sub(snapshot.CapturedAt)
	return age >= 0 && age < c.ttl
}

func (c *SnapshotCache) load() (*schema.Snapshot, error) {
	data, version, _, err := c.store.Get(snapshotKey)
	if err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", version, snapshotVersion)
	}
	var snapshot schema.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Metrics == nil {
		return nil, fmt.Errorf("snapshot has no metrics")
	}
	return &snapshot, nil
}

// sameRepo compares names case-insensitively since GitHub does.
func sameRepo(snapshot *schema.Snapshot, owner, repo string) bool {
	return strings.EqualFold(snapshot.Owner, owner) && strings.EqualFold(snapshot.Repo, repo)
}
