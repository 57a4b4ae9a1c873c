package iocache

import (
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// AnalyzeFunc runs a fresh analysis.
type AnalyzeFunc func() (*schema.RepositoryMetrics, error)

// CachedAnalysis returns the stored snapshot of owner/repo while it is fresh, otherwise it runs
// analyze and stores the result. The bool reports a cache hit. A nil store disables reuse.
func CachedAnalysis(store contract.SnapshotStore, owner, repo string, now time.Time, refresh bool, analyze AnalyzeFunc) (*schema.RepositoryMetrics, bool, error) {
	if store != nil && !refresh {
		if snapshot, ok := store.Get(owner, repo, now); ok {
			contract.Logger.WithField("captured_at", snapshot.CapturedAt).Debugf("reusing snapshot of %s/%s", owner, repo)
			return snapshot.Metrics, true, nil
		}
	}

	metrics, err := analyze()
	if err != nil {
		return nil, false, err
	}

	if store != nil {
		snapshot := &schema.Snapshot{Owner: owner, Repo: repo, CapturedAt: metrics.AnalyzedAt, Metrics: metrics}
		if err := store.Set(snapshot); err != nil {
			contract.LogWarn("Failed to save analysis snapshot", err)
		}
	}
	return metrics, false, nil
}
