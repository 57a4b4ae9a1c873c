package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/outwriter"
	"github.com/spf13/cobra"
)

// scoreCmd interprets a health score without fetching anything.
var scoreCmd = &cobra.Command{
	Use:   "score N",
	Short: "Explain what a health score means",
	Long: `Print the band of a 0-100 health score.

Bands:
  80-100  Excellent
  60-79   Good
  40-59   Fair
  0-39    Needs Attention`,
	Args:    cobra.ExactArgs(1),
	PreRunE: commonSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		score, err := parseScore(args[0])
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteInterpretation(score, core.InterpretHealthScore(score), cfg)
	},
}

// parseScore accepts an integer between 0 and 100.
func parseScore(raw string) (int, error) {
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid score '%s': must be an integer", raw)
	}
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("score must be between 0 and 100 (received %d)", score)
	}
	return score, nil
}
