package core

import (
	"math"
	"sort"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// Windows and sample sizes used by the derived metrics.
const (
	activityWindow     = 90 * 24 * time.Hour
	starGrowthWindow   = 30 * 24 * time.Hour
	responseSampleSize = 5
	codeFrequencyWeeks = 12
	dayDuration        = 24 * time.Hour
)

// median returns the middle value of a sorted copy of values, averaging the two middle
// values for even-length input. It returns nil for empty input.
func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	result := sorted[mid]
	if len(sorted)%2 == 0 {
		result = (sorted[mid-1] + sorted[mid]) / 2
	}
	return &result
}

// commitsByContributor groups commits by contributor identity.
func commitsByContributor(commits []schema.Commit) map[string]int {
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.Identity()]++
	}
	return counts
}

// topContributorRatio returns the share of commits made by the most active contributor, in percent.
func topContributorRatio(commits []schema.Commit) float64 {
	if len(commits) == 0 {
		return 0
	}
	top := 0
	for _, count := range commitsByContributor(commits) {
		top = max(top, count)
	}
	return float64(top*100) / float64(len(commits))
}

// contributorCount returns the number of distinct contributors in the commit sample.
func contributorCount(commits []schema.Commit) int {
	return len(commitsByContributor(commits))
}

// ageInDays returns the whole days elapsed between t and now, never negative.
func ageInDays(t, now time.Time) int {
	days := math.Floor(now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// buildReleaseStats converts releases into per-release stats relative to now, keeping their order.
func buildReleaseStats(releases []schema.Release, now time.Time) []schema.ReleaseStats {
	stats := make([]schema.ReleaseStats, 0, len(releases))
	for _, r := range releases {
		downloads := 0
		for _, asset := range r.Assets {
			downloads += asset.DownloadCount
		}
		assets := make([]schema.ReleaseAsset, len(r.Assets))
		copy(assets, r.Assets)
		stats = append(stats, schema.ReleaseStats{
			TagName:        r.TagName,
			Name:           r.Name,
			PublishedAt:    r.PublishedAt,
			AgeDays:        ageInDays(r.PublishedAt, now),
			TotalDownloads: downloads,
			AssetCount:     len(r.Assets),
			Prerelease:     r.Prerelease,
			Assets:         assets,
		})
	}
	return stats
}

// summarizeReleases computes the release rollups.
// Total downloads cover every release; the latest release, release counts and the
// average only consider non-prerelease entries.
func summarizeReleases(stats []schema.ReleaseStats, now time.Time) schema.ReleaseSummary {
	var summary schema.ReleaseSummary
	stableDownloads := 0
	for i := range stats {
		r := &stats[i]
		summary.TotalDownloads += r.TotalDownloads
		if r.Prerelease {
			continue
		}
		if summary.Latest == nil {
			summary.Latest = r
		}
		summary.TotalReleases++
		stableDownloads += r.TotalDownloads
		if now.Sub(r.PublishedAt) <= activityWindow {
			summary.ReleasesLast90Days++
		}
	}
	if summary.TotalReleases > 0 {
		summary.AverageDownloadsPerRelease = int(math.Round(float64(stableDownloads) / float64(summary.TotalReleases)))
	}
	return summary
}

// countClosedIssues counts the closed issues among the fetched ones.
func countClosedIssues(issues []schema.Issue) int {
	closed := 0
	for _, issue := range issues {
		if issue.IsClosed() {
			closed++
		}
	}
	return closed
}

// selectResponseSample picks the most recently created closed issues that have comments.
func selectResponseSample(issues []schema.Issue, size int) []schema.Issue {
	var candidates []schema.Issue
	for _, issue := range issues {
		if issue.IsClosed() && issue.Comments > 0 {
			candidates = append(candidates, issue)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	if len(candidates) > size {
		candidates = candidates[:size]
	}
	return candidates
}

// firstHumanResponse returns the time from issue creation to the first comment by a human user.
func firstHumanResponse(issue schema.Issue, comments []schema.IssueComment) (time.Duration, bool) {
	for _, comment := range comments {
		if !comment.IsHuman() {
			continue
		}
		elapsed := comment.CreatedAt.Sub(issue.CreatedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		return elapsed, true
	}
	return 0, false
}

// starGrowth counts starring events within the trailing 30 days.
// The count is reported both as stars per month and as recent growth.
func starGrowth(stargazers []schema.Stargazer, now time.Time) schema.StarGrowth {
	cutoff := now.Add(-starGrowthWindow)
	recent := 0
	for _, s := range stargazers {
		if s.StarredAt.After(cutoff) {
			recent++
		}
	}
	return schema.StarGrowth{StarsPerMonth: recent, RecentGrowth: recent}
}

// sumCodeFrequency sums additions and absolute deletions over the last n weekly buckets.
func sumCodeFrequency(weeks []schema.WeeklyCodeFrequency, n int) schema.CodeFrequency {
	if len(weeks) > n {
		weeks = weeks[len(weeks)-n:]
	}
	var total schema.CodeFrequency
	for _, w := range weeks {
		total.Additions += max(w.Additions, 0)
		total.Deletions += abs(w.Deletions)
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
