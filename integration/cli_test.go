//go:build basic

// Package integration contains end-to-end tests of the repopulse binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	out, err := runRepopulse(t, nil, "version")
	require.NoError(t, err, out)
	assert.Contains(t, out, "repopulse CLI")
}

func TestScoreJSON(t *testing.T) {
	out, err := runRepopulse(t, []string{"REPOPULSE_CACHE_BACKEND=none"}, "score", "68", "--output", "json")
	require.NoError(t, err, out)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.EqualValues(t, 68, payload["score"])
	assert.Equal(t, "Good", payload["label"])
}

func TestScoreOutOfRange(t *testing.T) {
	out, err := runRepopulse(t, []string{"REPOPULSE_CACHE_BACKEND=none"}, "score", "140")
	require.Error(t, err)
	assert.Contains(t, out, "score must be between 0 and 100")
}

func TestAnalyzeMissingRepository(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	out, err := runRepopulse(t, []string{"REPOPULSE_CACHE_BACKEND=none"},
		"analyze", "octocat/missing", "--api-url", server.URL, "--retries", "0")
	require.Error(t, err)
	assert.Contains(t, out, "octocat/missing: repository not found (HTTP 404)")
	assert.NotContains(t, out, "analyze repository:")
}
