// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteMetrics prints repository metrics using the configured output format.
func (ow *OutWriter) WriteMetrics(m *schema.RepositoryMetrics, interp schema.HealthInterpretation, cfg *contract.Config) error {
	return WriteMetricsResults(m, interp, cfg)
}

// WriteReleases prints the release detail view using the configured output format.
func (ow *OutWriter) WriteReleases(m *schema.RepositoryMetrics, cfg *contract.Config) error {
	return WriteReleaseResults(m, cfg)
}

// WriteInterpretation prints the band of a single score using the configured output format.
func (ow *OutWriter) WriteInterpretation(score int, interp schema.HealthInterpretation, cfg *contract.Config) error {
	return WriteInterpretationResult(score, interp, cfg)
}

// GetMaxTableTextWidth calculates the maximum width for free-text columns (release names,
// descriptions) based on terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Tag + Published + Age + Downloads + Assets + Pre with borders/padding
	baseWidth := 75

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
