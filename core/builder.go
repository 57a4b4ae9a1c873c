package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// Progress checkpoints of the pipeline.
const (
	progressRepoStart     = 5
	progressRepoDone      = 10
	progressIssuesStart   = 15
	progressIssuesEnd     = 30
	progressIssueCounts   = 35
	progressCommitsStart  = 40
	progressCommitsEnd    = 55
	progressReleasesStart = 60
	progressReleasesEnd   = 65
	progressResponseStart = 70
	progressResponseEnd   = 78
	progressAdditional    = 80
	progressAnalytics     = 85
	progressAnalyticsDone = 90
	progressCalculating   = 95
	progressComplete      = 100
)

// commentFetchPause spaces out per-issue comment fetches.
const commentFetchPause = 200 * time.Millisecond

// MetricsBuilder runs the analysis steps for one repository and assembles the metrics.
// Only FetchRepository can fail the build; every later step falls back to its empty default.
type MetricsBuilder struct {
	ctx      context.Context
	client   contract.RepoClient
	opts     AnalysisOptions
	owner    string
	repo     string
	now      time.Time
	progress *progressTracker
	metrics  *schema.RepositoryMetrics
	err      error

	// Internal data collected during the build process
	issues  []schema.Issue
	commits []schema.Commit
}

// NewMetricsBuilder is the starting point for analyzing a repository.
func NewMetricsBuilder(ctx context.Context, client contract.RepoClient, owner, repo string, opts AnalysisOptions) *MetricsBuilder {
	opts = opts.withDefaults()
	now := opts.Now()
	b := &MetricsBuilder{
		ctx:      ctx,
		client:   client,
		opts:     opts,
		owner:    owner,
		repo:     repo,
		now:      now,
		progress: newProgressTracker(opts.OnProgress),
		metrics: &schema.RepositoryMetrics{
			Owner:           owner,
			Name:            repo,
			FullName:        owner + "/" + repo,
			Releases:        []schema.ReleaseStats{},
			Languages:       map[string]int{},
			HealthBreakdown: map[schema.BreakdownKey]int{},
			AnalyzedAt:      now,
			Warnings:        []string{},
		},
	}
	b.progress.emit(schema.StepInit, fmt.Sprintf("Starting analysis of %s/%s", owner, repo), 0)
	return b
}

// active reports whether the build can continue, turning a cancelled context into a failure.
func (b *MetricsBuilder) active() bool {
	if b.err != nil {
		return false
	}
	if err := b.ctx.Err(); err != nil {
		b.err = err
		return false
	}
	return true
}

// degrade records a failed optional step and keeps the pipeline going.
func (b *MetricsBuilder) degrade(step schema.AnalysisStep, what string, err error) {
	contract.StepLogger(b.owner, b.repo, string(step)).WithError(err).Warnf("%s unavailable, using defaults", what)
	b.metrics.Warnings = append(b.metrics.Warnings, fmt.Sprintf("%s: %v", step, err))
	b.progress.emit(step, fmt.Sprintf("Skipped %s: %v", what, err), b.progress.last)
}

// FetchRepository loads repository identity and counters. Failure here aborts the build.
func (b *MetricsBuilder) FetchRepository() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepRepo, "Fetching repository info", progressRepoStart)

	info, err := b.client.GetRepository(b.ctx, b.owner, b.repo)
	if err != nil {
		b.err = &RepoError{Owner: b.owner, Repo: b.repo, Cause: err}
		return b
	}

	m := b.metrics
	m.Owner = info.Owner
	m.Name = info.Name
	m.FullName = info.FullName
	m.Description = info.Description
	m.HTMLURL = info.HTMLURL
	m.DefaultBranch = info.DefaultBranch
	m.PrimaryLanguage = info.PrimaryLanguage
	m.Stars = max(info.Stars, 0)
	m.Forks = max(info.Forks, 0)
	m.Watchers = max(info.Watchers, 0)
	m.OpenIssues = max(info.OpenIssues, 0)

	b.progress.emit(schema.StepRepo, fmt.Sprintf("Loaded %s", info.FullName), progressRepoDone)
	return b
}

// FetchIssues loads recent issues for the resolution fallback and the response time sample.
func (b *MetricsBuilder) FetchIssues() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepIssues, "Fetching issues", progressIssuesStart)

	issues, err := b.client.ListIssues(b.ctx, b.owner, b.repo, func(fetched, limit int) {
		b.progress.emit(schema.StepIssues, fmt.Sprintf("Fetched %d issues", fetched),
			interpolate(progressIssuesStart, progressIssuesEnd, fetched, limit))
	})
	if err != nil {
		b.degrade(schema.StepIssues, "issues", err)
		return b
	}
	b.issues = issues
	return b
}

// ReconcileIssueCounts resolves the closed issue count, falling back to the fetched issues.
func (b *MetricsBuilder) ReconcileIssueCounts() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepIssueCounts, "Counting closed issues", progressIssueCounts)

	closed, err := b.client.CountClosedIssues(b.ctx, b.owner, b.repo)
	if err != nil {
		b.degrade(schema.StepIssueCounts, "closed issue count", err)
		closed = countClosedIssues(b.issues)
	}
	b.metrics.ClosedIssues = max(closed, 0)
	return b
}

// FetchCommits loads commits of the trailing 90 days and derives contributor metrics.
func (b *MetricsBuilder) FetchCommits() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepCommits, "Fetching commits from the last 90 days", progressCommitsStart)

	since := b.now.Add(-activityWindow)
	commits, err := b.client.ListCommits(b.ctx, b.owner, b.repo, since, func(fetched, limit int) {
		b.progress.emit(schema.StepCommits, fmt.Sprintf("Fetched %d commits", fetched),
			interpolate(progressCommitsStart, progressCommitsEnd, fetched, limit))
	})
	if err != nil {
		b.degrade(schema.StepCommits, "commits", err)
		commits = nil
	}
	b.commits = commits
	b.metrics.CommitsLast90Days = len(commits)
	b.metrics.Contributors90Days = contributorCount(commits)
	b.metrics.TopContributorRatio = topContributorRatio(commits)
	return b
}

// FetchReleases loads releases and computes the release rollups.
func (b *MetricsBuilder) FetchReleases() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepReleases, "Fetching releases", progressReleasesStart)

	releases, err := b.client.ListReleases(b.ctx, b.owner, b.repo, b.opts.ReleaseLimit, func(fetched, limit int) {
		b.progress.emit(schema.StepReleases, fmt.Sprintf("Fetched %d releases", fetched),
			interpolate(progressReleasesStart, progressReleasesEnd, fetched, limit))
	})
	if err != nil {
		b.degrade(schema.StepReleases, "releases", err)
		releases = nil
	}

	stats := buildReleaseStats(releases, b.now)
	summary := summarizeReleases(stats, b.now)
	m := b.metrics
	m.Releases = stats
	m.LatestRelease = summary.Latest
	m.TotalReleases = summary.TotalReleases
	m.ReleasesLast90Days = summary.ReleasesLast90Days
	m.TotalDownloads = summary.TotalDownloads
	m.AverageDownloadsPerRelease = summary.AverageDownloadsPerRelease
	return b
}

// MeasureResponseTime samples recent closed issues and takes the median time to the first human comment.
func (b *MetricsBuilder) MeasureResponseTime() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepResponseTime, "Measuring issue response time", progressResponseStart)

	sample := selectResponseSample(b.issues, responseSampleSize)
	hours := make([]float64, 0, len(sample))
	for i, issue := range sample {
		if i > 0 {
			if err := b.opts.Sleep(b.ctx, commentFetchPause); err != nil {
				b.degrade(schema.StepResponseTime, "response time", err)
				break
			}
		}
		comments, err := b.client.ListIssueComments(b.ctx, b.owner, b.repo, issue.Number)
		if err != nil {
			contract.StepLogger(b.owner, b.repo, string(schema.StepResponseTime)).
				WithError(err).Debugf("skipping issue #%d", issue.Number)
		} else if elapsed, ok := firstHumanResponse(issue, comments); ok {
			hours = append(hours, elapsed.Hours())
		}
		b.progress.emit(schema.StepResponseTime, fmt.Sprintf("Checked issue #%d", issue.Number),
			interpolate(progressResponseStart, progressResponseEnd, i+1, len(sample)))
	}
	b.metrics.MedianResponseHours = median(hours)
	return b
}

// FetchAdditional loads the language breakdown and the open pull request count.
func (b *MetricsBuilder) FetchAdditional() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepAdditional, "Fetching languages and pull requests", progressAdditional)

	languages, err := b.client.GetLanguages(b.ctx, b.owner, b.repo)
	if err != nil {
		b.degrade(schema.StepAdditional, "languages", err)
	} else if languages != nil {
		b.metrics.Languages = languages
	}

	open, err := b.client.CountOpenPullRequests(b.ctx, b.owner, b.repo)
	if err != nil {
		b.degrade(schema.StepAdditional, "open pull request count", err)
		open = 0
	}
	b.metrics.OpenPullRequests = max(open, 0)
	return b
}

// FetchAnalytics loads star growth, pull request merge stats and code churn.
func (b *MetricsBuilder) FetchAnalytics() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepAnalytics, "Fetching star growth, merge stats and code churn", progressAnalytics)
	m := b.metrics

	stargazers, err := b.client.ListRecentStargazers(b.ctx, b.owner, b.repo)
	if err != nil {
		b.degrade(schema.StepAnalytics, "star growth", err)
		stargazers = nil
	}
	growth := starGrowth(stargazers, b.now)
	m.StarsPerMonth = growth.StarsPerMonth
	m.RecentStarGrowth = growth.RecentGrowth

	pulls, err := b.client.GetPullRequestStats(b.ctx, b.owner, b.repo)
	if err != nil {
		b.degrade(schema.StepAnalytics, "pull request merge stats", err)
		pulls = schema.PullRequestStats{}
	}
	m.MergedPullRequests = max(pulls.Merged, 0)
	m.ClosedUnmergedPullRequests = max(pulls.ClosedUnmerged, 0)
	m.PRMergeRate = min(max(pulls.MergeRate, 0), 100)

	weeks, err := b.client.GetCodeFrequency(b.ctx, b.owner, b.repo)
	if err != nil {
		b.degrade(schema.StepAnalytics, "code frequency", err)
		weeks = nil
	}
	churn := sumCodeFrequency(weeks, codeFrequencyWeeks)
	m.CodeAdditions = churn.Additions
	m.CodeDeletions = churn.Deletions

	b.progress.emit(schema.StepAnalytics, "Analytics loaded", progressAnalyticsDone)
	return b
}

// CalculateScore computes the health score from the collected metrics.
func (b *MetricsBuilder) CalculateScore() *MetricsBuilder {
	if !b.active() {
		return b
	}
	b.progress.emit(schema.StepCalculating, "Calculating health score", progressCalculating)
	b.metrics.HealthScore, b.metrics.HealthBreakdown = ComputeHealthScore(b.metrics)
	return b
}

// Build finalizes the construction and returns the completed metrics object.
func (b *MetricsBuilder) Build() (*schema.RepositoryMetrics, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.progress.emit(schema.StepComplete, "Analysis complete", progressComplete)
	return b.metrics, nil
}
