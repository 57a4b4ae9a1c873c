package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/parquet"
	"github.com/huangsam/repopulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// releasesJSON is the JSON document for the releases view.
type releasesJSON struct {
	FullName                   string                `json:"full_name"`
	TotalReleases              int                   `json:"total_releases"`
	ReleasesLast90Days         int                   `json:"releases_last_90_days"`
	TotalDownloads             int                   `json:"total_downloads"`
	AverageDownloadsPerRelease int                   `json:"average_downloads_per_release"`
	LatestRelease              *schema.ReleaseStats  `json:"latest_release"`
	Releases                   []schema.ReleaseStats `json:"releases"`
}

// WriteReleaseResults outputs the release detail view, dispatching based on the output format configured.
func WriteReleaseResults(m *schema.RepositoryMetrics, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, releasesJSON{
				FullName:                   m.FullName,
				TotalReleases:              m.TotalReleases,
				ReleasesLast90Days:         m.ReleasesLast90Days,
				TotalDownloads:             m.TotalDownloads,
				AverageDownloadsPerRelease: m.AverageDownloadsPerRelease,
				LatestRelease:              m.LatestRelease,
				Releases:                   m.Releases,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReleasesCSV(w, m)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg.OutputFile, "parquet"); err != nil {
			return err
		}
		if err := parquet.WriteReleasesParquet(parquet.ConvertReleases(m), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReleasesText(w, m, cfg, intFmt)
		}, "Wrote text")
	}
}

// writeReleasesText writes the release table, then the assets of the latest stable release.
func writeReleasesText(w io.Writer, m *schema.RepositoryMetrics, cfg *contract.Config, intFmt string) error {
	if _, err := fmt.Fprintf(w, "🏷️  Releases of %s\n\n", m.FullName); err != nil {
		return err
	}
	if len(m.Releases) == 0 {
		_, err := fmt.Fprintln(w, "No releases published.")
		return err
	}

	nameWidth := GetMaxTableTextWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tag", "Name", "Published", "Age", "Downloads", "Assets", "Pre"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{
			tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignCenter,
		}
	})

	var data [][]string
	for _, r := range m.Releases {
		pre := ""
		if r.Prerelease {
			pre = "yes"
		}
		data = append(data, []string{
			r.TagName,
			contract.TruncateText(r.Name, nameWidth),
			r.PublishedAt.Format("2006-01-02"),
			fmt.Sprintf(intFmt+"d", r.AgeDays),
			fmt.Sprintf(intFmt, r.TotalDownloads),
			fmt.Sprintf(intFmt, r.AssetCount),
			pre,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nStable releases: %d (%d in the last 90 days). Downloads: %d total, %d per stable release.\n",
		m.TotalReleases, m.ReleasesLast90Days, m.TotalDownloads, m.AverageDownloadsPerRelease); err != nil {
		return err
	}

	latest := m.LatestRelease
	if latest == nil || len(latest.Assets) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nAssets of %s\n", latest.TagName); err != nil {
		return err
	}
	assets := tablewriter.NewWriter(w)
	assets.Header([]string{"Asset", "Size", "Downloads"})
	assets.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight}
	})
	data = data[:0]
	for _, a := range latest.Assets {
		data = append(data, []string{
			contract.TruncateText(a.Name, nameWidth),
			formatBytes(a.Size),
			fmt.Sprintf(intFmt, a.DownloadCount),
		})
	}
	if err := assets.Bulk(data); err != nil {
		return err
	}
	return assets.Render()
}

// writeReleasesCSV writes one row per release.
func writeReleasesCSV(w io.Writer, m *schema.RepositoryMetrics) error {
	header := []string{"tag_name", "name", "published_at", "age_days", "total_downloads", "asset_count", "prerelease"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range m.Releases {
			record := []string{
				r.TagName,
				r.Name,
				r.PublishedAt.Format(contract.DateTimeFormat),
				strconv.Itoa(r.AgeDays),
				strconv.Itoa(r.TotalDownloads),
				strconv.Itoa(r.AssetCount),
				strconv.FormatBool(r.Prerelease),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
