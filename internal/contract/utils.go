package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repopulse/schema"
)

// Color variables for console output, keyed by the health band color tag.
var (
	GreenColor  = color.New(color.FgGreen, color.Bold) // GreenColor represents a healthy signal.
	BlueColor   = color.New(color.FgBlue, color.Bold)  // BlueColor represents a good but improvable signal.
	YellowColor = color.New(color.FgYellow)            // YellowColor represents standard caution, not bold.
	RedColor    = color.New(color.FgRed, color.Bold)   // RedColor represents standard danger.
)

// internalPrefixes are the wrapping prefixes added by lower layers that mean nothing to a user.
var internalPrefixes = []string{
	"analyze repository: ",
	"fetch repository: ",
	"github: ",
}

// ColorFor returns the console color for a health band color tag.
func ColorFor(tag schema.ColorTag) *color.Color {
	switch tag {
	case schema.ColorGreen:
		return GreenColor
	case schema.ColorBlue:
		return BlueColor
	case schema.ColorYellow:
		return YellowColor
	default: // "red"
		return RedColor
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(label string, tag schema.ColorTag) string {
	return ColorFor(tag).Sprint(label)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repopulse_cache.db"
	}
	return filepath.Join(homeDir, ".repopulse_cache.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// UserMessage renders an error for display, stripping the wrapping prefixes of internal layers.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		stripped := false
		for _, prefix := range internalPrefixes {
			if strings.HasPrefix(msg, prefix) {
				msg = strings.TrimPrefix(msg, prefix)
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	if msg == "" {
		return err.Error()
	}
	return msg
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
