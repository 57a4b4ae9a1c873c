// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// PageFunc reports pagination progress as (items fetched so far, fetch limit).
type PageFunc func(fetched, limit int)

// RepoClient defines the operations needed to analyze a hosted repository.
// This allows the analysis pipeline to be tested without a live API.
type RepoClient interface {
	// --- Identity ---

	// GetRepository returns the repository identity and raw counters.
	GetRepository(ctx context.Context, owner, repo string) (*schema.RepoInfo, error)

	// --- Issues ---

	// ListIssues returns issues of any state, excluding pull requests.
	ListIssues(ctx context.Context, owner, repo string, onPage PageFunc) ([]schema.Issue, error)

	// CountClosedIssues returns the total number of closed issues from the search API.
	CountClosedIssues(ctx context.Context, owner, repo string) (int, error)

	// ListIssueComments returns the first page of comments on an issue.
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]schema.IssueComment, error)

	// --- Activity ---

	// ListCommits returns commits made after since.
	ListCommits(ctx context.Context, owner, repo string, since time.Time, onPage PageFunc) ([]schema.Commit, error)

	// ListReleases returns non-draft releases, newest first, up to limit.
	ListReleases(ctx context.Context, owner, repo string, limit int, onPage PageFunc) ([]schema.Release, error)

	// --- Additional ---

	// GetLanguages returns a mapping from language name to byte count.
	GetLanguages(ctx context.Context, owner, repo string) (map[string]int, error)

	// CountOpenPullRequests returns the number of open pull requests from the search API.
	CountOpenPullRequests(ctx context.Context, owner, repo string) (int, error)

	// --- Analytics ---

	// GetPullRequestStats returns merged and closed-unmerged pull request counts.
	GetPullRequestStats(ctx context.Context, owner, repo string) (schema.PullRequestStats, error)

	// ListRecentStargazers returns up to 100 of the most recent starring events.
	ListRecentStargazers(ctx context.Context, owner, repo string) ([]schema.Stargazer, error)

	// GetCodeFrequency returns the weekly additions and deletions series.
	GetCodeFrequency(ctx context.Context, owner, repo string) ([]schema.WeeklyCodeFrequency, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCacheStore() CacheStore
	GetSnapshotStore() SnapshotStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore holds the last analysis result.
type SnapshotStore interface {
	// Get returns the snapshot for owner/repo when it exists and is still fresh at now.
	Get(owner, repo string, now time.Time) (*schema.Snapshot, bool)

	// Set replaces the stored snapshot.
	Set(snapshot *schema.Snapshot) error

	// Clear removes the stored snapshot.
	Clear() error
}

// CredentialStore keeps a static API token outside of the config file.
type CredentialStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// SleepFunc pauses for d or until ctx is done. It can be swapped in tests to avoid real waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default SleepFunc backed by a timer.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
