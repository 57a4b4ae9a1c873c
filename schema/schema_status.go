package schema

import (
	"errors"
	"time"
)

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
	SnapshotRepo    string    `json:"snapshot_repo"`
	SnapshotFresh   bool      `json:"snapshot_fresh"`
}

// Causes of a failed repository lookup.
var (
	ErrRepoNotFound     = errors.New("repository not found")
	ErrRepoAccessDenied = errors.New("access denied or rate limited")
	ErrRepoUnavailable  = errors.New("repository request failed")
)
