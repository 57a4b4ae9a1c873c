// Package core has the analysis pipeline, derived metrics and the health score.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// AnalysisOptions tunes one analysis run. Zero values fall back to defaults.
type AnalysisOptions struct {
	ReleaseLimit int
	OnProgress   schema.ProgressFunc
	Sleep        contract.SleepFunc
	Now          func() time.Time
}

func (o AnalysisOptions) withDefaults() AnalysisOptions {
	if o.ReleaseLimit <= 0 {
		o.ReleaseLimit = contract.DefaultReleaseLimit
	}
	if o.Sleep == nil {
		o.Sleep = contract.SleepContext
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// RepoError reports a repository that could not be resolved.
type RepoError struct {
	Owner string
	Repo  string
	Cause error
}

// Error implements the error interface.
func (e *RepoError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Owner, e.Repo, e.Cause)
}

// Unwrap exposes the cause so errors.Is matches the schema sentinels.
func (e *RepoError) Unwrap() error {
	return e.Cause
}

// AnalyzeRepository runs the full pipeline for owner/repo with default options.
func AnalyzeRepository(ctx context.Context, client contract.RepoClient, owner, repo string, onProgress schema.ProgressFunc) (*schema.RepositoryMetrics, error) {
	return AnalyzeRepositoryWithOptions(ctx, client, owner, repo, AnalysisOptions{OnProgress: onProgress})
}

// AnalyzeRepositoryWithOptions runs the full pipeline for owner/repo.
// Steps run one at a time because later steps consume the output of earlier ones.
func AnalyzeRepositoryWithOptions(ctx context.Context, client contract.RepoClient, owner, repo string, opts AnalysisOptions) (*schema.RepositoryMetrics, error) {
	metrics, err := NewMetricsBuilder(ctx, client, owner, repo, opts).
		FetchRepository().
		FetchIssues().
		ReconcileIssueCounts().
		FetchCommits().
		FetchReleases().
		MeasureResponseTime().
		FetchAdditional().
		FetchAnalytics().
		CalculateScore().
		Build()
	if err != nil {
		return nil, fmt.Errorf("analyze repository: %w", err)
	}
	return metrics, nil
}
