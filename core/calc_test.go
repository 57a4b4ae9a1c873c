package core

import (
	"testing"
	"time"

	"github.com/huangsam/repopulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 {
	return &v
}

func commitsFor(counts map[string]int) []schema.Commit {
	var commits []schema.Commit
	for author, n := range counts {
		for range n {
			commits = append(commits, schema.Commit{SHA: author, AuthorLogin: author})
		}
	}
	return commits
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected *float64
	}{
		{"empty", []float64{}, nil},
		{"nil", nil, nil},
		{"single", []float64{7}, floatPtr(7)},
		{"odd", []float64{1, 2, 3}, floatPtr(2)},
		{"even", []float64{1, 2, 3, 4}, floatPtr(2.5)},
		{"unsorted", []float64{9, 1, 5}, floatPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := median(tt.values)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestTopContributorRatio(t *testing.T) {
	tests := []struct {
		name     string
		commits  []schema.Commit
		expected float64
	}{
		{"empty", nil, 0},
		{"single author", commitsFor(map[string]int{"alice": 12}), 100},
		{"sixty percent", commitsFor(map[string]int{"alice": 18, "bob": 6, "carol": 6}), 60},
		{"even split", commitsFor(map[string]int{"alice": 5, "bob": 5}), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, topContributorRatio(tt.commits), 1e-9)
		})
	}
}

func TestTopContributorRatioFallsBackToEmail(t *testing.T) {
	commits := []schema.Commit{
		{SHA: "1", AuthorEmail: "dev@example.com"},
		{SHA: "2", AuthorEmail: "dev@example.com"},
		{SHA: "3", AuthorLogin: "alice", AuthorEmail: "dev@example.com"},
	}
	assert.InDelta(t, 66.666, topContributorRatio(commits), 0.001)
	assert.Equal(t, 2, contributorCount(commits))
}

func TestAgeInDays(t *testing.T) {
	assert.Equal(t, 0, ageInDays(testNow, testNow))
	assert.Equal(t, 0, ageInDays(testNow.Add(-23*time.Hour), testNow))
	assert.Equal(t, 1, ageInDays(testNow.Add(-25*time.Hour), testNow))
	assert.Equal(t, 10, ageInDays(testNow.AddDate(0, 0, -10), testNow))
	assert.Equal(t, 0, ageInDays(testNow.Add(48*time.Hour), testNow))
}

func TestReleaseRollups(t *testing.T) {
	releases := []schema.Release{
		{
			TagName:     "v1.2.0",
			Name:        "v1.2.0",
			PublishedAt: testNow.AddDate(0, 0, -3),
			Assets: []schema.ReleaseAsset{
				{Name: "a.tar.gz", Size: 100, DownloadCount: 6},
				{Name: "b.tar.gz", Size: 200, DownloadCount: 4},
			},
		},
		{
			TagName:     "v1.2.0-rc1",
			PublishedAt: testNow.AddDate(0, 0, -10),
			Prerelease:  true,
			Assets:      []schema.ReleaseAsset{{Name: "a.tar.gz", DownloadCount: 5}},
		},
		{
			TagName:     "v1.1.0",
			PublishedAt: testNow.AddDate(0, 0, -120),
			Assets:      []schema.ReleaseAsset{{Name: "a.tar.gz", DownloadCount: 0}},
		},
	}

	stats := buildReleaseStats(releases, testNow)
	require.Len(t, stats, 3)
	assert.Equal(t, 10, stats[0].TotalDownloads)
	assert.Equal(t, 2, stats[0].AssetCount)
	assert.Equal(t, 3, stats[0].AgeDays)
	assert.Equal(t, 5, stats[1].TotalDownloads)
	assert.Equal(t, 0, stats[2].TotalDownloads)

	summary := summarizeReleases(stats, testNow)
	assert.Equal(t, 15, summary.TotalDownloads, "total includes the prerelease")
	assert.Equal(t, 2, summary.TotalReleases, "count excludes the prerelease")
	assert.Equal(t, 5, summary.AverageDownloadsPerRelease, "average excludes the prerelease")
	assert.Equal(t, 1, summary.ReleasesLast90Days)
	require.NotNil(t, summary.Latest)
	assert.Equal(t, "v1.2.0", summary.Latest.TagName)
}

func TestReleaseRollupsPrereleaseFirst(t *testing.T) {
	releases := []schema.Release{
		{TagName: "v2.0.0-beta", PublishedAt: testNow.AddDate(0, 0, -1), Prerelease: true},
		{TagName: "v1.0.0", PublishedAt: testNow.AddDate(0, 0, -45)},
	}
	summary := summarizeReleases(buildReleaseStats(releases, testNow), testNow)
	require.NotNil(t, summary.Latest)
	assert.Equal(t, "v1.0.0", summary.Latest.TagName)
	assert.Equal(t, 45, summary.Latest.AgeDays)
}

func TestReleaseRollupsEmpty(t *testing.T) {
	summary := summarizeReleases(buildReleaseStats(nil, testNow), testNow)
	assert.Nil(t, summary.Latest)
	assert.Zero(t, summary.TotalReleases)
	assert.Zero(t, summary.AverageDownloadsPerRelease)
}

func TestReleaseRollupsOnlyPrereleases(t *testing.T) {
	releases := []schema.Release{
		{TagName: "v0.1.0-alpha", PublishedAt: testNow, Prerelease: true, Assets: []schema.ReleaseAsset{{DownloadCount: 9}}},
	}
	summary := summarizeReleases(buildReleaseStats(releases, testNow), testNow)
	assert.Nil(t, summary.Latest)
	assert.Equal(t, 9, summary.TotalDownloads)
	assert.Zero(t, summary.AverageDownloadsPerRelease)
}

func TestSelectResponseSample(t *testing.T) {
	var issues []schema.Issue
	for i := 1; i <= 8; i++ {
		issues = append(issues, schema.Issue{
			Number:    i,
			State:     "closed",
			Comments:  1,
			CreatedAt: testNow.Add(time.Duration(i) * time.Hour),
		})
	}
	issues = append(issues,
		schema.Issue{Number: 100, State: "open", Comments: 3, CreatedAt: testNow.AddDate(1, 0, 0)},
		schema.Issue{Number: 101, State: "closed", Comments: 0, CreatedAt: testNow.AddDate(1, 0, 0)},
	)

	sample := selectResponseSample(issues, 5)
	require.Len(t, sample, 5)
	numbers := make([]int, 0, len(sample))
	for _, issue := range sample {
		numbers = append(numbers, issue.Number)
	}
	assert.Equal(t, []int{8, 7, 6, 5, 4}, numbers)
}

func TestFirstHumanResponse(t *testing.T) {
	issue := schema.Issue{Number: 1, CreatedAt: testNow}

	t.Run("skips bots", func(t *testing.T) {
		comments := []schema.IssueComment{
			{AuthorLogin: "stale[bot]", AuthorType: "Bot", CreatedAt: testNow.Add(time.Minute)},
			{AuthorLogin: "alice", AuthorType: "User", CreatedAt: testNow.Add(5 * time.Hour)},
			{AuthorLogin: "bob", AuthorType: "User", CreatedAt: testNow.Add(9 * time.Hour)},
		}
		elapsed, ok := firstHumanResponse(issue, comments)
		assert.True(t, ok)
		assert.Equal(t, 5*time.Hour, elapsed)
	})

	t.Run("no human comment", func(t *testing.T) {
		comments := []schema.IssueComment{{AuthorLogin: "ci", AuthorType: "Bot", CreatedAt: testNow}}
		_, ok := firstHumanResponse(issue, comments)
		assert.False(t, ok)
	})

	t.Run("no comments", func(t *testing.T) {
		_, ok := firstHumanResponse(issue, nil)
		assert.False(t, ok)
	})
}

func TestStarGrowth(t *testing.T) {
	stargazers := []schema.Stargazer{
		{Login: "a", StarredAt: testNow.Add(-time.Hour)},
		{Login: "b", StarredAt: testNow.AddDate(0, 0, -29)},
		{Login: "c", StarredAt: testNow.AddDate(0, 0, -31)},
		{Login: "d", StarredAt: testNow.AddDate(-1, 0, 0)},
	}
	assert.Equal(t, schema.StarGrowth{StarsPerMonth: 2, RecentGrowth: 2}, starGrowth(stargazers, testNow))
	assert.Equal(t, schema.StarGrowth{}, starGrowth(nil, testNow))
}

func TestSumCodeFrequency(t *testing.T) {
	var weeks []schema.WeeklyCodeFrequency
	for i := range 14 {
		weeks = append(weeks, schema.WeeklyCodeFrequency{
			Week:      testNow.AddDate(0, 0, 7*i),
			Additions: 10,
			Deletions: -3,
		})
	}
	weeks[0].Additions = 1000 // outside the last 12 weeks

	got := sumCodeFrequency(weeks, 12)
	assert.Equal(t, schema.CodeFrequency{Additions: 120, Deletions: 36}, got)
	assert.Equal(t, schema.CodeFrequency{}, sumCodeFrequency(nil, 12))
}

func TestCountClosedIssues(t *testing.T) {
	issues := []schema.Issue{{State: "closed"}, {State: "open"}, {State: "closed"}}
	assert.Equal(t, 2, countClosedIssues(issues))
}
