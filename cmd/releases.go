package cmd

import (
	"github.com/huangsam/repopulse/internal/outwriter"
	"github.com/spf13/cobra"
)

// releasesCmd prints the release detail view.
var releasesCmd = &cobra.Command{
	Use:   "releases OWNER/REPO",
	Short: "List releases, downloads and assets of a repository",
	Long: `Show every fetched release with its age, downloads and asset count,
followed by the assets of the latest stable release.

Reuses the analysis cached by 'repopulse analyze' when it is less than an hour old.

Examples:
  repopulse releases cli/cli
  repopulse releases cli/cli --output csv --output-file releases.csv`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: bindLocalFlagsSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		metrics, err := loadMetrics(cmd)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteReleases(metrics, cfg)
	},
}
