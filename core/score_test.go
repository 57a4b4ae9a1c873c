package core

import (
	"testing"

	"github.com/huangsam/repopulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestResponseTimePoints(t *testing.T) {
	tests := []struct {
		name     string
		hours    *float64
		expected int
	}{
		{"unknown", nil, 10},
		{"instant", floatPtr(0), 20},
		{"under a day", floatPtr(23.9), 20},
		{"exactly a day", floatPtr(24), 16},
		{"two days", floatPtr(48), 12},
		{"three days", floatPtr(72), 8},
		{"just under a week", floatPtr(167.9), 8},
		{"a week", floatPtr(168), 4},
		{"a month", floatPtr(720), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, responseTimePoints(tt.hours))
		})
	}
}

func TestResolutionPoints(t *testing.T) {
	tests := []struct {
		name         string
		open, closed int
		expected     int
	}{
		{"no issues", 0, 0, 10},
		{"all closed", 0, 10, 20},
		{"all open", 10, 0, 0},
		{"ninety percent", 5, 45, 18},
		{"rounds half up", 1, 1, 10},
		{"rounds third", 2, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolutionPoints(tt.open, tt.closed))
		})
	}
}

func TestCommitActivityPoints(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{5, 4},
		{9, 7},
		{10, 8},
		{19, 8},
		{20, 12},
		{30, 12},
		{50, 16},
		{99, 16},
		{100, 20},
		{1000, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, commitActivityPoints(tt.count), "commits=%d", tt.count)
	}
}

func TestBusFactorPoints(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected int
	}{
		{0, 20},
		{39.9, 20},
		{40, 16},
		{50, 12},
		{60, 8},
		{69.9, 8},
		{70, 4},
		{100, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, busFactorPoints(tt.ratio), "ratio=%v", tt.ratio)
	}
}

func TestReleasePoints(t *testing.T) {
	tests := []struct {
		name     string
		latest   *schema.ReleaseStats
		expected int
	}{
		{"no release", nil, 4},
		{"today", &schema.ReleaseStats{AgeDays: 0}, 20},
		{"thirty days", &schema.ReleaseStats{AgeDays: 30}, 20},
		{"thirty one days", &schema.ReleaseStats{AgeDays: 31}, 16},
		{"sixty days", &schema.ReleaseStats{AgeDays: 60}, 16},
		{"ninety days", &schema.ReleaseStats{AgeDays: 90}, 12},
		{"half a year", &schema.ReleaseStats{AgeDays: 180}, 8},
		{"stale", &schema.ReleaseStats{AgeDays: 181}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, releasePoints(tt.latest))
		})
	}
}

func TestComputeHealthScore(t *testing.T) {
	t.Run("typical repository", func(t *testing.T) {
		m := &schema.RepositoryMetrics{
			OpenIssues:          5,
			ClosedIssues:        45,
			CommitsLast90Days:   30,
			TopContributorRatio: 60,
			LatestRelease:       &schema.ReleaseStats{TagName: "v1.0.0", AgeDays: 10},
		}

		score, breakdown := ComputeHealthScore(m)
		assert.Equal(t, 68, score)
		assert.Equal(t, map[schema.BreakdownKey]int{
			schema.BreakdownResponseTime: 10,
			schema.BreakdownResolution:   18,
			schema.BreakdownActivity:     12,
			schema.BreakdownBusFactor:    8,
			schema.BreakdownRelease:      20,
		}, breakdown)
	})

	t.Run("perfect repository", func(t *testing.T) {
		m := &schema.RepositoryMetrics{
			MedianResponseHours: floatPtr(2),
			ClosedIssues:        100,
			CommitsLast90Days:   250,
			TopContributorRatio: 20,
			LatestRelease:       &schema.ReleaseStats{AgeDays: 1},
		}
		score, _ := ComputeHealthScore(m)
		assert.Equal(t, 100, score)
	})

	t.Run("empty repository", func(t *testing.T) {
		score, breakdown := ComputeHealthScore(&schema.RepositoryMetrics{})
		// unknown response 10, no issues 10, no commits 0, ratio 0 is 20, no release 4
		assert.Equal(t, 44, score)
		assert.Len(t, breakdown, len(schema.AllBreakdownKeys))
	})

	t.Run("breakdown sums to score", func(t *testing.T) {
		m := &schema.RepositoryMetrics{
			MedianResponseHours: floatPtr(50),
			OpenIssues:          30,
			ClosedIssues:        10,
			CommitsLast90Days:   12,
			TopContributorRatio: 45,
			LatestRelease:       &schema.ReleaseStats{AgeDays: 75},
		}
		score, breakdown := ComputeHealthScore(m)
		sum := 0
		for _, key := range schema.AllBreakdownKeys {
			points, ok := breakdown[key]
			assert.True(t, ok, "missing %s", key)
			assert.GreaterOrEqual(t, points, 0)
			assert.LessOrEqual(t, points, 20)
			sum += points
		}
		assert.Equal(t, sum, score)
	})
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 55, clampScore(55))
	assert.Equal(t, 100, clampScore(120))
}

func TestInterpretHealthScore(t *testing.T) {
	tests := []struct {
		score int
		label string
		color schema.ColorTag
	}{
		{100, "Excellent", schema.ColorGreen},
		{80, "Excellent", schema.ColorGreen},
		{79, "Good", schema.ColorBlue},
		{60, "Good", schema.ColorBlue},
		{59, "Fair", schema.ColorYellow},
		{40, "Fair", schema.ColorYellow},
		{39, "Needs Attention", schema.ColorRed},
		{0, "Needs Attention", schema.ColorRed},
	}

	for _, tt := range tests {
		got := InterpretHealthScore(tt.score)
		assert.Equal(t, tt.label, got.Label, "score=%d", tt.score)
		assert.Equal(t, tt.color, got.ColorTag, "score=%d", tt.score)
		assert.NotEmpty(t, got.Description)
	}
}
