package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleMetrics() *schema.RepositoryMetrics {
	hours := 30.25
	latest := schema.ReleaseStats{
		TagName:        "v1.0.0",
		Name:           "First stable",
		PublishedAt:    testNow.AddDate(0, 0, -10),
		AgeDays:        10,
		TotalDownloads: 42,
		AssetCount:     2,
		Assets: []schema.ReleaseAsset{
			{Name: "hello-linux.tar.gz", Size: 2 * 1024 * 1024, DownloadCount: 30},
			{Name: "hello-darwin.tar.gz", Size: 512, DownloadCount: 12},
		},
	}
	return &schema.RepositoryMetrics{
		Owner:               "octocat",
		Name:                "hello-world",
		FullName:            "octocat/hello-world",
		Description:         "My first repository",
		HTMLURL:             "https://github.com/octocat/hello-world",
		PrimaryLanguage:     "Go",
		Stars:               120,
		StarsPerMonth:       7,
		RecentStarGrowth:    7,
		OpenIssues:          5,
		ClosedIssues:        45,
		MedianResponseHours: &hours,
		CommitsLast90Days:   30,
		Contributors90Days:  3,
		TopContributorRatio: 60,
		LatestRelease:       &latest,
		Releases: []schema.ReleaseStats{
			{TagName: "v1.1.0-rc1", Name: "Release candidate", PublishedAt: testNow.AddDate(0, 0, -2), AgeDays: 2, Prerelease: true},
			latest,
		},
		TotalReleases:              1,
		ReleasesLast90Days:         1,
		TotalDownloads:             42,
		AverageDownloadsPerRelease: 42,
		Languages:                  map[string]int{"Go": 750, "Shell": 250},
		HealthScore:                68,
		HealthBreakdown: map[schema.BreakdownKey]int{
			schema.BreakdownResponseTime: 10,
			schema.BreakdownResolution:   18,
			schema.BreakdownActivity:     12,
			schema.BreakdownBusFactor:    8,
			schema.BreakdownRelease:      20,
		},
		AnalyzedAt: testNow,
		Warnings:   []string{"analytics: code frequency still computing"},
	}
}

var goodBand = schema.HealthInterpretation{
	Label:       "Good",
	Description: "Healthy project with a few areas that could improve.",
	ColorTag:    schema.ColorBlue,
}

func testConfig(t *testing.T, output schema.OutputMode, name string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:     output,
		OutputFile: filepath.Join(t.TempDir(), name),
		Precision:  1,
		Width:      120,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteMetricsText(t *testing.T) {
	cfg := testConfig(t, schema.TextOut, "metrics.txt")
	require.NoError(t, NewOutWriter().WriteMetrics(sampleMetrics(), goodBand, cfg))

	out := readFile(t, cfg.OutputFile)
	for _, want := range []string{
		"octocat/hello-world",
		"My first repository",
		"Health Score: 68/100",
		"Good",
		"Median First Response",
		"30.2h",
		"v1.0.0 (10d ago)",
		"Issue Resolution",
		"Recent Star Growth",
		"Languages: Go 75.0%, Shell 25.0%",
		"Partial data (1)",
		"code frequency still computing",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteMetricsTextUnknownValues(t *testing.T) {
	m := sampleMetrics()
	m.MedianResponseHours = nil
	m.LatestRelease = nil
	m.Warnings = nil
	m.Languages = map[string]int{}
	cfg := testConfig(t, schema.TextOut, "metrics.txt")

	require.NoError(t, WriteMetricsResults(m, goodBand, cfg))
	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "none")
	assert.NotContains(t, out, "Partial data")
	assert.NotContains(t, out, "Languages:")
}

func TestWriteMetricsJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "metrics.json")
	require.NoError(t, WriteMetricsResults(sampleMetrics(), goodBand, cfg))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &doc))
	assert.Equal(t, "octocat/hello-world", doc["full_name"])
	assert.EqualValues(t, 68, doc["health_score"])
	assert.EqualValues(t, 30.25, doc["median_response_hours"])
	interp, ok := doc["interpretation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Good", interp["label"])
	breakdown, ok := doc["health_breakdown"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 18, breakdown["issue_resolution"])
}

func TestWriteMetricsJSONNullResponse(t *testing.T) {
	m := sampleMetrics()
	m.MedianResponseHours = nil
	cfg := testConfig(t, schema.JSONOut, "metrics.json")
	require.NoError(t, WriteMetricsResults(m, goodBand, cfg))
	assert.Contains(t, readFile(t, cfg.OutputFile), `"median_response_hours": null`)
}

func TestWriteMetricsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut, "metrics.csv")
	require.NoError(t, WriteMetricsResults(sampleMetrics(), goodBand, cfg))

	records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"metric", "value"}, records[0])

	values := map[string]string{}
	for _, r := range records[1:] {
		values[r[0]] = r[1]
	}
	assert.Equal(t, "68", values["health_score"])
	assert.Equal(t, "Good", values["health_label"])
	assert.Equal(t, "30.25", values["median_response_hours"])
	assert.Equal(t, "60", values["top_contributor_ratio"])
	assert.Equal(t, "v1.0.0", values["latest_release"])
	assert.Equal(t, "18", values["score_issue_resolution"])
	assert.Equal(t, "7", values["stars_per_month"])
	assert.Equal(t, "7", values["recent_star_growth"])
}

func TestWriteMetricsParquet(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut, "metrics.parquet")
	require.NoError(t, WriteMetricsResults(sampleMetrics(), goodBand, cfg))

	_, err := os.Stat(cfg.OutputFile)
	assert.NoError(t, err)
	_, err = os.Stat(siblingPath(cfg.OutputFile, "releases"))
	assert.NoError(t, err)

	cfg.OutputFile = ""
	assert.Error(t, WriteMetricsResults(sampleMetrics(), goodBand, cfg))
}

func TestWriteReleasesText(t *testing.T) {
	cfg := testConfig(t, schema.TextOut, "releases.txt")
	require.NoError(t, NewOutWriter().WriteReleases(sampleMetrics(), cfg))

	out := readFile(t, cfg.OutputFile)
	for _, want := range []string{
		"Releases of octocat/hello-world",
		"v1.1.0-rc1",
		"2024-05-22",
		"Stable releases: 1",
		"Assets of v1.0.0",
		"hello-linux.tar.gz",
		"2.0 MiB",
		"512 B",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteReleasesTextEmpty(t *testing.T) {
	m := sampleMetrics()
	m.Releases = []schema.ReleaseStats{}
	m.LatestRelease = nil
	cfg := testConfig(t, schema.TextOut, "releases.txt")
	require.NoError(t, WriteReleaseResults(m, cfg))
	assert.Contains(t, readFile(t, cfg.OutputFile), "No releases published.")
}

func TestWriteReleasesCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut, "releases.csv")
	require.NoError(t, WriteReleaseResults(sampleMetrics(), cfg))

	records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "tag_name", records[0][0])
	assert.Equal(t, []string{"v1.1.0-rc1", "Release candidate"}, records[1][:2])
	assert.Equal(t, "true", records[1][6])
	assert.Equal(t, "42", records[2][4])
}

func TestWriteReleasesJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "releases.json")
	require.NoError(t, WriteReleaseResults(sampleMetrics(), cfg))

	var doc releasesJSON
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &doc))
	assert.Equal(t, "octocat/hello-world", doc.FullName)
	assert.Len(t, doc.Releases, 2)
	require.NotNil(t, doc.LatestRelease)
	assert.Equal(t, "v1.0.0", doc.LatestRelease.TagName)
}

func TestWriteReleasesParquet(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut, "releases.parquet")
	require.NoError(t, WriteReleaseResults(sampleMetrics(), cfg))
	_, err := os.Stat(cfg.OutputFile)
	assert.NoError(t, err)
}

func TestWriteInterpretation(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "score.txt")
		require.NoError(t, NewOutWriter().WriteInterpretation(68, goodBand, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "Health Score: 68/100")
		assert.Contains(t, out, goodBand.Description)
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "score.json")
		require.NoError(t, WriteInterpretationResult(68, goodBand, cfg))
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &doc))
		assert.EqualValues(t, 68, doc["score"])
		assert.Equal(t, "Good", doc["label"])
		assert.Equal(t, "blue", doc["color_tag"])
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "score.csv")
		require.NoError(t, WriteInterpretationResult(68, goodBand, cfg))
		assert.Contains(t, readFile(t, cfg.OutputFile), "68,Good,")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "score.parquet")
		assert.Error(t, WriteInterpretationResult(68, goodBand, cfg))
	})
}

func TestGetMaxTableTextWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{40, 12},
		{100, 25},
		{200, 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTableTextWidth(&contract.Config{Width: tt.width}), "width=%d", tt.width)
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "out/metrics_releases.parquet", siblingPath("out/metrics.parquet", "releases"))
	assert.Equal(t, "metrics_releases", siblingPath("metrics", "releases"))

	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "1.0 KiB", formatBytes(1024))
	assert.Equal(t, "1.5 MiB", formatBytes(1536*1024))

	shares := languageShares(map[string]int{"Shell": 250, "Go": 750, "C": 250})
	require.Len(t, shares, 3)
	assert.Equal(t, "Go", shares[0].Name)
	assert.Equal(t, "C", shares[1].Name, "ties break by name")
	assert.InDelta(t, 60.0, shares[0].Percent, 1e-9)
	assert.Empty(t, languageShares(nil))
}
