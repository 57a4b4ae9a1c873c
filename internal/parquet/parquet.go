// Package parquet provides row types and writers for exporting repository
// metrics to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repopulse/schema"
	"github.com/parquet-go/parquet-go"
)

// MetricsRow is the flattened form of one repository analysis.
type MetricsRow struct {
	// FullName is the owner/name slug of the repository
	FullName string `parquet:"full_name,snappy"`

	// AnalyzedAt is when the analysis ran (stored as TIMESTAMP with nanosecond precision)
	AnalyzedAt time.Time `parquet:"analyzed_at,snappy"`

	Description     string `parquet:"description,snappy"`
	PrimaryLanguage string `parquet:"primary_language,snappy"`
	DefaultBranch   string `parquet:"default_branch,snappy"`

	Stars      int32 `parquet:"stars,snappy"`
	Forks      int32 `parquet:"forks,snappy"`
	Watchers   int32 `parquet:"watchers,snappy"`
	OpenIssues int32 `parquet:"open_issues,snappy"`

	ClosedIssues int32 `parquet:"closed_issues,snappy"`

	// MedianResponseHours is null when no sampled issue had a human response
	MedianResponseHours *float64 `parquet:"median_response_hours,optional,snappy"`

	CommitsLast90Days   int32   `parquet:"commits_last_90_days,snappy"`
	Contributors90Days  int32   `parquet:"contributors_90_days,snappy"`
	TopContributorRatio float64 `parquet:"top_contributor_ratio,snappy"`

	// LatestReleaseTag and LatestReleaseAgeDays are null when there is no stable release
	LatestReleaseTag     *string `parquet:"latest_release_tag,optional,snappy"`
	LatestReleaseAgeDays *int32  `parquet:"latest_release_age_days,optional,snappy"`

	TotalReleases              int32 `parquet:"total_releases,snappy"`
	ReleasesLast90Days         int32 `parquet:"releases_last_90_days,snappy"`
	TotalDownloads             int64 `parquet:"total_downloads,snappy"`
	AverageDownloadsPerRelease int64 `parquet:"average_downloads_per_release,snappy"`

	OpenPullRequests           int32   `parquet:"open_pull_requests,snappy"`
	MergedPullRequests         int32   `parquet:"merged_pull_requests,snappy"`
	ClosedUnmergedPullRequests int32   `parquet:"closed_unmerged_pull_requests,snappy"`
	PRMergeRate                float64 `parquet:"pr_merge_rate,snappy"`

	StarsPerMonth    int32 `parquet:"stars_per_month,snappy"`
	RecentStarGrowth int32 `parquet:"recent_star_growth,snappy"`
	CodeAdditions    int64 `parquet:"code_additions,snappy"`
	CodeDeletions    int64 `parquet:"code_deletions,snappy"`

	// HealthScore is the total; the score_* columns hold its components
	HealthScore       int32 `parquet:"health_score,snappy"`
	ScoreResponseTime int32 `parquet:"score_response_time,snappy"`
	ScoreResolution   int32 `parquet:"score_issue_resolution,snappy"`
	ScoreActivity     int32 `parquet:"score_commit_activity,snappy"`
	ScoreBusFactor    int32 `parquet:"score_bus_factor,snappy"`
	ScoreRelease      int32 `parquet:"score_release_recency,snappy"`
}

// ReleaseRow is one release of an analyzed repository.
type ReleaseRow struct {
	FullName       string    `parquet:"full_name,snappy"`
	TagName        string    `parquet:"tag_name,snappy"`
	Name           string    `parquet:"name,snappy"`
	PublishedAt    time.Time `parquet:"published_at,snappy"`
	AgeDays        int32     `parquet:"age_days,snappy"`
	TotalDownloads int64     `parquet:"total_downloads,snappy"`
	AssetCount     int32     `parquet:"asset_count,snappy"`
	Prerelease     bool      `parquet:"prerelease,snappy"`
}

// ConvertMetrics flattens metrics into a MetricsRow.
func ConvertMetrics(m *schema.RepositoryMetrics) MetricsRow {
	row := MetricsRow{
		FullName:                   m.FullName,
		AnalyzedAt:                 m.AnalyzedAt,
		Description:                m.Description,
		PrimaryLanguage:            m.PrimaryLanguage,
		DefaultBranch:              m.DefaultBranch,
		Stars:                      int32(m.Stars),
		Forks:                      int32(m.Forks),
		Watchers:                   int32(m.Watchers),
		OpenIssues:                 int32(m.OpenIssues),
		ClosedIssues:               int32(m.ClosedIssues),
		MedianResponseHours:        m.MedianResponseHours,
		CommitsLast90Days:          int32(m.CommitsLast90Days),
		Contributors90Days:         int32(m.Contributors90Days),
		TopContributorRatio:        m.TopContributorRatio,
		TotalReleases:              int32(m.TotalReleases),
		ReleasesLast90Days:         int32(m.ReleasesLast90Days),
		TotalDownloads:             int64(m.TotalDownloads),
		AverageDownloadsPerRelease: int64(m.AverageDownloadsPerRelease),
		OpenPullRequests:           int32(m.OpenPullRequests),
		MergedPullRequests:         int32(m.MergedPullRequests),
		ClosedUnmergedPullRequests: int32(m.ClosedUnmergedPullRequests),
		PRMergeRate:                m.PRMergeRate,
		StarsPerMonth:              int32(m.StarsPerMonth),
		RecentStarGrowth:           int32(m.RecentStarGrowth),
		CodeAdditions:              int64(m.CodeAdditions),
		CodeDeletions:              int64(m.CodeDeletions),
		HealthScore:                int32(m.HealthScore),
		ScoreResponseTime:          int32(m.HealthBreakdown[schema.BreakdownResponseTime]),
		ScoreResolution:            int32(m.HealthBreakdown[schema.BreakdownResolution]),
		ScoreActivity:              int32(m.HealthBreakdown[schema.BreakdownActivity]),
		ScoreBusFactor:             int32(m.HealthBreakdown[schema.BreakdownBusFactor]),
		ScoreRelease:               int32(m.HealthBreakdown[schema.BreakdownRelease]),
	}
	if latest := m.LatestRelease; latest != nil {
		tag := latest.TagName
		age := int32(latest.AgeDays)
		row.LatestReleaseTag = &tag
		row.LatestReleaseAgeDays = &age
	}
	return row
}

// ConvertReleases converts the release list of metrics into ReleaseRows.
func ConvertReleases(m *schema.RepositoryMetrics) []ReleaseRow {
	result := make([]ReleaseRow, len(m.Releases))
	for i, r := range m.Releases {
		result[i] = ReleaseRow{
			FullName:       m.FullName,
			TagName:        r.TagName,
			Name:           r.Name,
			PublishedAt:    r.PublishedAt,
			AgeDays:        int32(r.AgeDays),
			TotalDownloads: int64(r.TotalDownloads),
			AssetCount:     int32(r.AssetCount),
			Prerelease:     r.Prerelease,
		}
	}
	return result
}

// WriteMetricsParquet writes MetricsRows to a Parquet file.
func WriteMetricsParquet(data []MetricsRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteReleasesParquet writes ReleaseRows to a Parquet file.
func WriteReleasesParquet(data []ReleaseRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes rows to outputPath with a schema inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; the file is unreadable without it
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
