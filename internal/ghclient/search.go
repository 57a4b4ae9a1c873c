package ghclient

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// Search qualifiers scoped to one repository.
const (
	closedIssuesQuery   = "type:issue state:closed"
	openPullsQuery      = "type:pr is:open"
	mergedPullsQuery    = "type:pr is:merged"
	unmergedPullsQuery  = "type:pr is:closed is:unmerged"
	searchRepoQualifier = "repo:%s/%s %s"
)

// CountClosedIssues returns the total number of closed issues.
func (c *Client) CountClosedIssues(ctx context.Context, owner, repo string) (int, error) {
	return c.countSearch(ctx, owner, repo, closedIssuesQuery)
}

// CountOpenPullRequests returns the total number of open pull requests.
func (c *Client) CountOpenPullRequests(ctx context.Context, owner, repo string) (int, error) {
	return c.countSearch(ctx, owner, repo, openPullsQuery)
}

// GetPullRequestStats counts merged and closed-unmerged pull requests.
// Each query failure counts as zero instead of failing the call.
func (c *Client) GetPullRequestStats(ctx context.Context, owner, repo string) (schema.PullRequestStats, error) {
	merged, err := c.countSearch(ctx, owner, repo, mergedPullsQuery)
	if err != nil {
		contract.LogDebug("merged pull request search failed", err)
		merged = 0
	}
	closed, err := c.countSearch(ctx, owner, repo, unmergedPullsQuery)
	if err != nil {
		contract.LogDebug("closed pull request search failed", err)
		closed = 0
	}
	return schema.PullRequestStats{
		Merged:         merged,
		ClosedUnmerged: closed,
		MergeRate:      MergeRate(merged, closed),
	}, nil
}

// MergeRate returns merged / (merged + closed) * 100, or 0 without closed pull requests.
func MergeRate(merged, closed int) float64 {
	total := merged + closed
	if total <= 0 {
		return 0
	}
	return float64(merged) / float64(total) * 100
}

// countSearch runs a search query and returns only its total count.
func (c *Client) countSearch(ctx context.Context, owner, repo, qualifiers string) (int, error) {
	query := fmt.Sprintf(searchRepoQualifier, owner, repo, qualifiers)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, resp, err := c.gh.Search.Issues(ctx, query, opts)
	logRateLimit(resp)
	if err != nil {
		return 0, fmt.Errorf("search %q: %w", query, err)
	}
	return result.GetTotal(), nil
}
