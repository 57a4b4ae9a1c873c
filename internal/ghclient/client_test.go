package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/repopulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a server around mux and returns a client pointed at it.
func newTestClient(t *testing.T, mux *http.ServeMux, retries int) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var delays []time.Duration
	client, err := New(Options{
		Token:   "test-token",
		BaseURL: srv.URL,
		Retries: retries,
		Sleep:   recordSleep(&delays),
	})
	require.NoError(t, err)
	return client, &delays
}

// writeJSON encodes v as the response body.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// setLinks writes a pagination Link header for page out of last.
func setLinks(w http.ResponseWriter, r *http.Request, page, last int) {
	pageURL := func(n int) string {
		u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path}
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(n))
		u.RawQuery = q.Encode()
		return u.String()
	}
	var links []string
	if page < last {
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, pageURL(page+1)))
	}
	if last > 1 {
		links = append(links, fmt.Sprintf(`<%s>; rel="last"`, pageURL(last)))
	}
	if len(links) > 0 {
		w.Header().Set("Link", strings.Join(links, ", "))
	}
}

// pageOf returns the requested page number, defaulting to 1.
func pageOf(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestGetRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{
			"name":              "hello-world",
			"full_name":         "octocat/hello-world",
			"description":       "My first repository",
			"html_url":          "https://github.com/octocat/hello-world",
			"default_branch":    "main",
			"language":          "Go",
			"stargazers_count":  120,
			"forks_count":       7,
			"watchers_count":    120,
			"open_issues_count": 5,
			"owner":             map[string]any{"login": "octocat"},
		})
	})
	client, _ := newTestClient(t, mux, 3)

	info, err := client.GetRepository(context.Background(), "octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, &schema.RepoInfo{
		Owner:           "octocat",
		Name:            "hello-world",
		FullName:        "octocat/hello-world",
		Description:     "My first repository",
		HTMLURL:         "https://github.com/octocat/hello-world",
		DefaultBranch:   "main",
		PrimaryLanguage: "Go",
		Stars:           120,
		Forks:           7,
		Watchers:        120,
		OpenIssues:      5,
	}, info)
}

func TestGetRepositoryErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      error
		wantAttempts int32
	}{
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`, schema.ErrRepoNotFound, 1},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Bad credentials"}`, schema.ErrRepoAccessDenied, 1},
		{"forbidden after retries", http.StatusForbidden, `{"message":"Forbidden"}`, schema.ErrRepoAccessDenied, 4},
		{"unavailable after retries", http.StatusServiceUnavailable, `{"message":"Unavailable"}`, schema.ErrRepoUnavailable, 4},
		{"malformed payload", http.StatusOK, `{"full_name":""}`, schema.ErrRepoUnavailable, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/octocat/missing", func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			client, _ := newTestClient(t, mux, 3)

			info, err := client.GetRepository(context.Background(), "octocat", "missing")
			assert.Nil(t, info)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantAttempts, attempts.Load())
		})
	}
}

func TestSearchCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		total := map[string]int{
			"repo:octocat/hello-world type:issue state:closed":      45,
			"repo:octocat/hello-world type:pr is:open":              3,
			"repo:octocat/hello-world type:pr is:merged":            30,
			"repo:octocat/hello-world type:pr is:closed is:unmerged": 10,
		}
		count, ok := total[q]
		if !ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
			return
		}
		writeJSON(t, w, map[string]any{"total_count": count, "incomplete_results": false, "items": []any{}})
	})
	client, _ := newTestClient(t, mux, 3)
	ctx := context.Background()

	closed, err := client.CountClosedIssues(ctx, "octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, 45, closed)

	open, err := client.CountOpenPullRequests(ctx, "octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, 3, open)

	stats, err := client.GetPullRequestStats(ctx, "octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Merged)
	assert.Equal(t, 10, stats.ClosedUnmerged)
	assert.InDelta(t, 75.0, stats.MergeRate, 0.001)

	_, err = client.CountClosedIssues(ctx, "octocat", "other")
	assert.Error(t, err)
}

func TestGetPullRequestStatsAbsorbsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "is:merged") {
			writeJSON(t, w, map[string]any{"total_count": 12, "items": []any{}})
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
	})
	client, _ := newTestClient(t, mux, 3)

	stats, err := client.GetPullRequestStats(context.Background(), "octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, schema.PullRequestStats{Merged: 12, ClosedUnmerged: 0, MergeRate: 100}, stats)
}

func TestMergeRate(t *testing.T) {
	assert.Equal(t, 0.0, MergeRate(0, 0))
	assert.Equal(t, 100.0, MergeRate(5, 0))
	assert.Equal(t, 0.0, MergeRate(0, 5))
	assert.InDelta(t, 66.667, MergeRate(2, 1), 0.001)
}
