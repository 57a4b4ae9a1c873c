package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repopulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		tag      schema.ColorTag
		expected any
	}{
		{schema.ColorGreen, GreenColor},
		{schema.ColorBlue, BlueColor},
		{schema.ColorYellow, YellowColor},
		{schema.ColorRed, RedColor},
		{schema.ColorTag("unknown"), RedColor},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Same(t, tt.expected, ColorFor(tt.tag))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	result := GetColorLabel("Excellent", schema.ColorGreen)
	assert.Contains(t, result, "Excellent")
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetCacheDBFilePath(t *testing.T) {
	path := GetCacheDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".repopulse_cache.db")
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny width untouched", "hello", 3, "hello"},
		{"multibyte", "héllo wörld", 7, "héll..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "boom"},
		{
			"single prefix",
			fmt.Errorf("fetch repository: %w", errors.New("octocat/x: repository not found")),
			"octocat/x: repository not found",
		},
		{
			"stacked prefixes",
			fmt.Errorf("analyze repository: %w", fmt.Errorf("fetch repository: %w", errors.New("octocat/x: access denied"))),
			"octocat/x: access denied",
		},
		{"only prefix", errors.New("github: "), "github: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", MaskToken("abcd"))
	assert.Equal(t, "********wxyz", MaskToken("ghp_abcdwxyz"))
	assert.Equal(t, "", MaskToken(""))
}

func TestSetLogLevel(t *testing.T) {
	original := Logger.GetLevel()
	defer Logger.SetLevel(original)

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, "debug", Logger.GetLevel().String())
	require.NoError(t, SetLogLevel(""))
	assert.Equal(t, "debug", Logger.GetLevel().String())
	assert.Error(t, SetLogLevel("loud"))
}
