// Package schema has the data model shared by every part of repopulse.
package schema

import "time"

// RepositoryMetrics is the terminal artifact of one analysis run.
// It combines identity fields, raw platform counters, derived counters and ratios,
// release rollups, analytics and the final health score.
type RepositoryMetrics struct {
	Owner           string `json:"owner"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	HTMLURL         string `json:"html_url"`
	DefaultBranch   string `json:"default_branch"`
	PrimaryLanguage string `json:"primary_language"`

	Stars      int `json:"stars"`
	Forks      int `json:"forks"`
	Watchers   int `json:"watchers"`
	OpenIssues int `json:"open_issues"` // open_issues_count as reported by the platform

	ClosedIssues               int `json:"closed_issues"`
	CommitsLast90Days          int `json:"commits_last_90_days"`
	Contributors90Days         int `json:"contributors_90_days"`
	OpenPullRequests           int `json:"open_pull_requests"`
	MergedPullRequests         int `json:"merged_pull_requests"`
	ClosedUnmergedPullRequests int `json:"closed_unmerged_pull_requests"`

	MedianResponseHours *float64 `json:"median_response_hours"` // nil when no sample exists
	TopContributorRatio float64  `json:"top_contributor_ratio"` // percent
	PRMergeRate         float64  `json:"pr_merge_rate"`         // percent

	Releases                   []ReleaseStats `json:"releases"`
	LatestRelease              *ReleaseStats  `json:"latest_release"`
	TotalReleases              int            `json:"total_releases"`
	ReleasesLast90Days         int            `json:"releases_last_90_days"`
	TotalDownloads             int            `json:"total_downloads"`
	AverageDownloadsPerRelease int            `json:"average_downloads_per_release"`

	Languages        map[string]int `json:"languages"`
	StarsPerMonth    int            `json:"stars_per_month"`
	RecentStarGrowth int            `json:"recent_star_growth"`
	CodeAdditions    int            `json:"code_additions"`
	CodeDeletions    int            `json:"code_deletions"`

	HealthScore     int                  `json:"health_score"`
	HealthBreakdown map[BreakdownKey]int `json:"health_breakdown"`
	AnalyzedAt      time.Time            `json:"analyzed_at"`
	Warnings        []string             `json:"warnings"`
}

// ReleaseStats summarizes one non-draft release.
type ReleaseStats struct {
	TagName        string         `json:"tag_name"`
	Name           string         `json:"name"`
	PublishedAt    time.Time      `json:"published_at"`
	AgeDays        int            `json:"age_days"`
	TotalDownloads int            `json:"total_downloads"`
	AssetCount     int            `json:"asset_count"`
	Prerelease     bool           `json:"prerelease"`
	Assets         []ReleaseAsset `json:"assets"`
}

// ReleaseAsset is a downloadable file attached to a release.
type ReleaseAsset struct {
	Name          string `json:"name"`
	Size          int    `json:"size"`
	DownloadCount int    `json:"download_count"`
}

// AnalysisStatus is an ephemeral progress event emitted while a pipeline runs.
type AnalysisStatus struct {
	Step     AnalysisStep `json:"step"`
	Message  string       `json:"message"`
	Progress int          `json:"progress"` // 0-100, non-decreasing within a run
}

// ProgressFunc receives progress events in emission order.
type ProgressFunc func(AnalysisStatus)

// HealthInterpretation is the presentation band of a health score.
type HealthInterpretation struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	ColorTag    ColorTag `json:"color_tag"`
}

// ReleaseSummary holds the rollups derived from a release list.
type ReleaseSummary struct {
	Latest                     *ReleaseStats
	TotalReleases              int
	ReleasesLast90Days         int
	TotalDownloads             int
	AverageDownloadsPerRelease int
}

// PullRequestStats holds the merge counters for closed pull requests.
type PullRequestStats struct {
	Merged         int
	ClosedUnmerged int
	MergeRate      float64
}

// StarGrowth holds the star velocity approximations.
type StarGrowth struct {
	StarsPerMonth int
	RecentGrowth  int
}

// CodeFrequency holds the summed churn over recent weekly buckets.
type CodeFrequency struct {
	Additions int
	Deletions int
}

// Snapshot is the cached form of the last analysis.
type Snapshot struct {
	Owner      string             `json:"owner"`
	Repo       string             `json:"repo"`
	CapturedAt time.Time          `json:"captured_at"`
	Metrics    *RepositoryMetrics `json:"metrics"`
}
