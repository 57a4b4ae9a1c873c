package ghclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// ListIssues pages through issues of any state, up to 500 items.
// Issues being disabled (404) ends the listing with whatever was collected.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, onPage contract.PageFunc) ([]schema.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var issues []schema.Issue
	fetched := 0
	for fetched < issueLimit {
		page, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		logRateLimit(resp)
		if err != nil {
			if statusCode(resp, err) == http.StatusNotFound {
				return issues, nil
			}
			return issues, fmt.Errorf("list issues: %w", err)
		}

		fetched += len(page)
		for _, item := range page {
			if item.IsPullRequest() {
				continue
			}
			if issue, ok := toIssue(item); ok {
				issues = append(issues, issue)
			}
		}
		report(onPage, fetched, issueLimit)

		if len(page) < pageSize || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return issues, nil
}

// ListIssueComments returns the first page of comments on an issue.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]schema.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	page, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
	logRateLimit(resp)
	if err != nil {
		return nil, fmt.Errorf("list comments for issue #%d: %w", number, err)
	}

	comments := make([]schema.IssueComment, 0, len(page))
	for _, item := range page {
		if comment, ok := toIssueComment(item); ok {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func toIssue(item *github.Issue) (schema.Issue, bool) {
	if item.GetNumber() == 0 || item.GetCreatedAt().IsZero() {
		contract.LogDebug(fmt.Sprintf("dropping issue #%d without creation time", item.GetNumber()), nil)
		return schema.Issue{}, false
	}
	return schema.Issue{
		Number:    item.GetNumber(),
		State:     item.GetState(),
		Comments:  item.GetComments(),
		CreatedAt: item.GetCreatedAt().Time,
		ClosedAt:  item.GetClosedAt().Time,
	}, true
}

func toIssueComment(item *github.IssueComment) (schema.IssueComment, bool) {
	user := item.GetUser()
	if user == nil || user.GetLogin() == "" || item.GetCreatedAt().IsZero() {
		contract.LogDebug("dropping comment without author or creation time", nil)
		return schema.IssueComment{}, false
	}
	return schema.IssueComment{
		AuthorLogin: user.GetLogin(),
		AuthorType:  user.GetType(),
		CreatedAt:   item.GetCreatedAt().Time,
	}, true
}
