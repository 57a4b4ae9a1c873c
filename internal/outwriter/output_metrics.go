package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/parquet"
	"github.com/huangsam/repopulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// breakdownLabels are the display names of the health sub-scores.
var breakdownLabels = map[schema.BreakdownKey]string{
	schema.BreakdownResponseTime: "Issue Response Time",
	schema.BreakdownResolution:   "Issue Resolution",
	schema.BreakdownActivity:     "Commit Activity",
	schema.BreakdownBusFactor:    "Bus Factor",
	schema.BreakdownRelease:      "Release Recency",
}

// maxSubScore is the cap of each health sub-score.
const maxSubScore = 20

// metricRow is one metric with its display text and its raw CSV value.
type metricRow struct {
	Key   string
	Label string
	Text  string
	Raw   string
}

// metricsJSON is the JSON document for one analysis.
type metricsJSON struct {
	*schema.RepositoryMetrics
	Interpretation schema.HealthInterpretation `json:"interpretation"`
}

// languageShare is a language with its share of the repository bytes.
type languageShare struct {
	Name    string  `json:"name"`
	Bytes   int     `json:"bytes"`
	Percent float64 `json:"percent"`
}

// WriteMetricsResults outputs repository metrics, dispatching based on the output format configured.
func WriteMetricsResults(m *schema.RepositoryMetrics, interp schema.HealthInterpretation, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, metricsJSON{RepositoryMetrics: m, Interpretation: interp})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsCSV(w, m, interp, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeMetricsParquet(m, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, m, interp, cfg, fmtFloat, intFmt)
		}, "Wrote text")
	}
}

// buildMetricRows flattens metrics into ordered display rows.
func buildMetricRows(m *schema.RepositoryMetrics, fmtFloat func(float64) string, intFmt string) []metricRow {
	itoa := func(v int) string { return fmt.Sprintf(intFmt, v) }
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	response := metricRow{Key: "median_response_hours", Label: "Median First Response", Text: "n/a"}
	if m.MedianResponseHours != nil {
		response.Text = fmtFloat(*m.MedianResponseHours) + "h"
		response.Raw = ftoa(*m.MedianResponseHours)
	}

	latest := metricRow{Key: "latest_release", Label: "Latest Release", Text: "none"}
	if m.LatestRelease != nil {
		latest.Text = fmt.Sprintf("%s (%dd ago)", m.LatestRelease.TagName, m.LatestRelease.AgeDays)
		latest.Raw = m.LatestRelease.TagName
	}

	return []metricRow{
		{"stars", "Stars", itoa(m.Stars), strconv.Itoa(m.Stars)},
		{"forks", "Forks", itoa(m.Forks), strconv.Itoa(m.Forks)},
		{"watchers", "Watchers", itoa(m.Watchers), strconv.Itoa(m.Watchers)},
		{"primary_language", "Primary Language", orNone(m.PrimaryLanguage), m.PrimaryLanguage},
		{"open_issues", "Open Issues", itoa(m.OpenIssues), strconv.Itoa(m.OpenIssues)},
		{"closed_issues", "Closed Issues", itoa(m.ClosedIssues), strconv.Itoa(m.ClosedIssues)},
		response,
		{"commits_last_90_days", "Commits (90d)", itoa(m.CommitsLast90Days), strconv.Itoa(m.CommitsLast90Days)},
		{"contributors_90_days", "Contributors (90d)", itoa(m.Contributors90Days), strconv.Itoa(m.Contributors90Days)},
		{"top_contributor_ratio", "Top Contributor Share", fmtFloat(m.TopContributorRatio) + "%", ftoa(m.TopContributorRatio)},
		latest,
		{"total_releases", "Releases", itoa(m.TotalReleases), strconv.Itoa(m.TotalReleases)},
		{"releases_last_90_days", "Releases (90d)", itoa(m.ReleasesLast90Days), strconv.Itoa(m.ReleasesLast90Days)},
		{"total_downloads", "Downloads", itoa(m.TotalDownloads), strconv.Itoa(m.TotalDownloads)},
		{"average_downloads_per_release", "Downloads per Release", itoa(m.AverageDownloadsPerRelease), strconv.Itoa(m.AverageDownloadsPerRelease)},
		{"open_pull_requests", "Open Pull Requests", itoa(m.OpenPullRequests), strconv.Itoa(m.OpenPullRequests)},
		{"merged_pull_requests", "Merged Pull Requests", itoa(m.MergedPullRequests), strconv.Itoa(m.MergedPullRequests)},
		{"closed_unmerged_pull_requests", "Closed Unmerged PRs", itoa(m.ClosedUnmergedPullRequests), strconv.Itoa(m.ClosedUnmergedPullRequests)},
		{"pr_merge_rate", "PR Merge Rate", fmtFloat(m.PRMergeRate) + "%", ftoa(m.PRMergeRate)},
		{"stars_per_month", "Stars (30d)", itoa(m.StarsPerMonth), strconv.Itoa(m.StarsPerMonth)},
		{"recent_star_growth", "Recent Star Growth", itoa(m.RecentStarGrowth), strconv.Itoa(m.RecentStarGrowth)},
		{"code_additions", "Additions (12w)", "+" + itoa(m.CodeAdditions), strconv.Itoa(m.CodeAdditions)},
		{"code_deletions", "Deletions (12w)", "-" + itoa(m.CodeDeletions), strconv.Itoa(m.CodeDeletions)},
	}
}

// languageShares returns languages ordered by size, largest first.
func languageShares(languages map[string]int) []languageShare {
	total := 0
	for _, b := range languages {
		total += b
	}
	shares := make([]languageShare, 0, len(languages))
	for name, b := range languages {
		share := languageShare{Name: name, Bytes: b}
		if total > 0 {
			share.Percent = float64(b) * 100 / float64(total)
		}
		shares = append(shares, share)
	}
	slices.SortFunc(shares, func(a, b languageShare) int {
		if c := cmp.Compare(b.Bytes, a.Bytes); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return shares
}

// writeMetricsText writes the human-readable report.
func writeMetricsText(w io.Writer, m *schema.RepositoryMetrics, interp schema.HealthInterpretation, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintf(w, "📊 %s\n", m.FullName); err != nil {
		return err
	}
	if m.Description != "" {
		if _, err := fmt.Fprintf(w, "   %s\n", contract.TruncateText(m.Description, GetMaxTableTextWidth(cfg)+40)); err != nil {
			return err
		}
	}
	if m.HTMLURL != "" {
		if _, err := fmt.Fprintf(w, "   %s\n", m.HTMLURL); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nHealth Score: %d/100 %s\n%s\n\n",
		m.HealthScore, contract.GetColorLabel(interp.Label, interp.ColorTag), interp.Description); err != nil {
		return err
	}

	// Overview table
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})
	var data [][]string
	for _, row := range buildMetricRows(m, fmtFloat, intFmt) {
		data = append(data, []string{row.Label, row.Text})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Score breakdown table
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	breakdown := tablewriter.NewWriter(w)
	breakdown.Header([]string{"Component", "Points", "Max"})
	breakdown.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight}
	})
	data = data[:0]
	for _, key := range schema.AllBreakdownKeys {
		data = append(data, []string{breakdownLabels[key], fmt.Sprintf(intFmt, m.HealthBreakdown[key]), strconv.Itoa(maxSubScore)})
	}
	if err := breakdown.Bulk(data); err != nil {
		return err
	}
	if err := breakdown.Render(); err != nil {
		return err
	}

	if shares := languageShares(m.Languages); len(shares) > 0 {
		parts := make([]string, 0, len(shares))
		for _, s := range shares {
			parts = append(parts, fmt.Sprintf("%s %s%%", s.Name, fmtFloat(s.Percent)))
		}
		if _, err := fmt.Fprintf(w, "\nLanguages: %s\n", strings.Join(parts, ", ")); err != nil {
			return err
		}
	}

	if len(m.Warnings) > 0 {
		if _, err := fmt.Fprintf(w, "\n⚠️  Partial data (%d):\n", len(m.Warnings)); err != nil {
			return err
		}
		for _, warning := range m.Warnings {
			if _, err := fmt.Fprintf(w, "   - %s\n", warning); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "\nAnalyzed at %s\n", m.AnalyzedAt.Format(contract.DateTimeFormat))
	return err
}

// writeMetricsCSV writes metrics as metric,value rows.
func writeMetricsCSV(w io.Writer, m *schema.RepositoryMetrics, interp schema.HealthInterpretation, intFmt string) error {
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		records := [][]string{
			{"full_name", m.FullName},
			{"health_score", strconv.Itoa(m.HealthScore)},
			{"health_label", interp.Label},
		}
		for _, row := range buildMetricRows(m, func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }, intFmt) {
			records = append(records, []string{row.Key, row.Raw})
		}
		for _, key := range schema.AllBreakdownKeys {
			records = append(records, []string{"score_" + string(key), strconv.Itoa(m.HealthBreakdown[key])})
		}
		records = append(records, []string{"analyzed_at", m.AnalyzedAt.Format(contract.DateTimeFormat)})
		for _, record := range records {
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeMetricsParquet writes the metrics row to outputFile and the releases to a sibling file.
func writeMetricsParquet(m *schema.RepositoryMetrics, outputFile string) error {
	if err := requireOutputFile(outputFile, "parquet"); err != nil {
		return err
	}
	if err := parquet.WriteMetricsParquet([]parquet.MetricsRow{parquet.ConvertMetrics(m)}, outputFile); err != nil {
		return fmt.Errorf("error writing parquet output: %w", err)
	}
	releasesFile := siblingPath(outputFile, "releases")
	if err := parquet.WriteReleasesParquet(parquet.ConvertReleases(m), releasesFile); err != nil {
		return fmt.Errorf("error writing parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s and %s\n", outputFile, releasesFile)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
