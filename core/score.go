package core

import (
	"math"

	"github.com/huangsam/repopulse/schema"
)

// Points awarded per health sub-score.
const (
	maxSubScore         = 20
	unknownResponseTime = 10
	noIssuesResolution  = 10
	noReleasePoints     = 4
)

// ComputeHealthScore sums the five capped sub-scores and clamps the result to [0, 100].
// The returned breakdown records the points of each sub-score.
func ComputeHealthScore(m *schema.RepositoryMetrics) (int, map[schema.BreakdownKey]int) {
	breakdown := map[schema.BreakdownKey]int{
		schema.BreakdownResponseTime: responseTimePoints(m.MedianResponseHours),
		schema.BreakdownResolution:   resolutionPoints(m.OpenIssues, m.ClosedIssues),
		schema.BreakdownActivity:     commitActivityPoints(m.CommitsLast90Days),
		schema.BreakdownBusFactor:    busFactorPoints(m.TopContributorRatio),
		schema.BreakdownRelease:      releasePoints(m.LatestRelease),
	}
	total := 0
	for _, points := range breakdown {
		total += points
	}
	return clampScore(total), breakdown
}

// responseTimePoints scores the median response time; unknown gets the middle value.
func responseTimePoints(hours *float64) int {
	if hours == nil {
		return unknownResponseTime
	}
	switch h := *hours; {
	case h < 24:
		return 20
	case h < 48:
		return 16
	case h < 72:
		return 12
	case h < 168:
		return 8
	default:
		return 4
	}
}

// resolutionPoints scores the share of closed issues.
func resolutionPoints(open, closed int) int {
	total := open + closed
	if total <= 0 {
		return noIssuesResolution
	}
	return int(math.Round(float64(closed) / float64(total) * maxSubScore))
}

// commitActivityPoints scores the commit count of the trailing 90 days.
func commitActivityPoints(count int) int {
	switch {
	case count >= 100:
		return 20
	case count >= 50:
		return 16
	case count >= 20:
		return 12
	case count >= 10:
		return 8
	default:
		return int(math.Round(float64(max(count, 0)) / 10 * 8))
	}
}

// busFactorPoints scores contributor concentration; lower concentration is healthier.
func busFactorPoints(ratio float64) int {
	switch {
	case ratio < 40:
		return 20
	case ratio < 50:
		return 16
	case ratio < 60:
		return 12
	case ratio < 70:
		return 8
	default:
		return 4
	}
}

// releasePoints scores the age of the latest non-prerelease release.
func releasePoints(latest *schema.ReleaseStats) int {
	if latest == nil {
		return noReleasePoints
	}
	switch days := latest.AgeDays; {
	case days <= 30:
		return 20
	case days <= 60:
		return 16
	case days <= 90:
		return 12
	case days <= 180:
		return 8
	default:
		return 4
	}
}

// clampScore bounds a score to [0, 100].
func clampScore(score int) int {
	return min(max(score, 0), 100)
}

// InterpretHealthScore maps a score onto its presentation band.
func InterpretHealthScore(score int) schema.HealthInterpretation {
	switch {
	case score >= 80:
		return schema.HealthInterpretation{
			Label:       "Excellent",
			Description: "Actively maintained with responsive maintainers and regular releases.",
			ColorTag:    schema.ColorGreen,
		}
	case score >= 60:
		return schema.HealthInterpretation{
			Label:       "Good",
			Description: "Healthy project with a few areas that could improve.",
			ColorTag:    schema.ColorBlue,
		}
	case score >= 40:
		return schema.HealthInterpretation{
			Label:       "Fair",
			Description: "Some maintenance signals are weak. Review activity before depending on it.",
			ColorTag:    schema.ColorYellow,
		}
	default:
		return schema.HealthInterpretation{
			Label:       "Needs Attention",
			Description: "Low activity or responsiveness. Adopt with caution.",
			ColorTag:    schema.ColorRed,
		}
	}
}
