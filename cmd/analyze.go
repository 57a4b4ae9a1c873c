package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/internal/outwriter"
	"github.com/huangsam/repopulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analyzeCmd runs the full pipeline and prints the metrics report.
var analyzeCmd = &cobra.Command{
	Use:   "analyze OWNER/REPO",
	Short: "Compute the health score and metrics of a repository",
	Long: `Fetch issues, commits, releases and analytics of a GitHub repository and
condense them into a 0-100 health score.

The score adds five components worth up to 20 points each:
- Issue response time (median time to the first maintainer comment)
- Issue resolution (share of issues that are closed)
- Commit activity (commits in the last 90 days)
- Bus factor (share of commits by the top contributor)
- Release recency (age of the latest stable release)

Optional data that cannot be fetched is reported as partial data instead of failing the run.
Results are cached for one hour; use --refresh to fetch again.

Examples:
  # Analyze a repository
  repopulse analyze octocat/hello-world

  # JSON for scripts
  repopulse analyze octocat hello-world --output json --output-file hello.json`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: bindLocalFlagsSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		metrics, err := loadMetrics(cmd)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteMetrics(metrics, core.InterpretHealthScore(metrics.HealthScore), cfg)
	},
}

// bindLocalFlagsSetup binds the running command's own flags, then runs the shared setup.
func bindLocalFlagsSetup(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return sharedSetupWrapper(cmd, args)
}

// loadMetrics returns the cached snapshot when fresh, otherwise runs the analysis.
func loadMetrics(cmd *cobra.Command) (*schema.RepositoryMetrics, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = rootCtx
	}

	progress := newProgressLine(!cfg.NoProgress)
	defer progress.Done()
	defer progress.captureLogs()()

	metrics, cached, err := iocache.CachedAnalysis(snapshotStore(), cfg.Owner, cfg.Repo, time.Now(), cfg.Refresh,
		func() (*schema.RepositoryMetrics, error) {
			client, err := newRepoClient(cfg)
			if err != nil {
				return nil, err
			}
			return core.AnalyzeRepositoryWithOptions(ctx, client, cfg.Owner, cfg.Repo, core.AnalysisOptions{
				ReleaseLimit: cfg.ReleaseLimit,
				OnProgress:   progress.Update,
			})
		})
	if err != nil {
		return nil, err
	}

	progress.Done()
	if cached {
		fmt.Fprintf(os.Stderr, "♻️  Using cached analysis from %s (use --refresh to fetch again)\n",
			metrics.AnalyzedAt.Local().Format(contract.DateTimeFormat))
	}
	return metrics, nil
}
