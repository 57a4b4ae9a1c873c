package ghclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/repopulse/schema"
)

// GetRepository fetches repository identity and counters.
// Failures are classified into the schema sentinel errors.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*schema.RepoInfo, error) {
	payload, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	logRateLimit(resp)
	if err != nil {
		return nil, classifyRepoError(resp, err)
	}
	return toRepoInfo(owner, payload)
}

// classifyRepoError maps a failed repository lookup onto a sentinel cause.
func classifyRepoError(resp *github.Response, err error) error {
	switch status := statusCode(resp, err); status {
	case http.StatusNotFound:
		return fmt.Errorf("%w (HTTP %d)", schema.ErrRepoNotFound, status)
	case http.StatusForbidden, http.StatusUnauthorized, http.StatusTooManyRequests:
		return fmt.Errorf("%w (HTTP %d)", schema.ErrRepoAccessDenied, status)
	case 0:
		return fmt.Errorf("%w: %v", schema.ErrRepoUnavailable, err)
	default:
		return fmt.Errorf("%w (HTTP %d)", schema.ErrRepoUnavailable, status)
	}
}

func toRepoInfo(owner string, payload *github.Repository) (*schema.RepoInfo, error) {
	if payload == nil || payload.GetName() == "" {
		return nil, fmt.Errorf("%w: repository payload is missing its name", schema.ErrRepoUnavailable)
	}
	if login := payload.GetOwner().GetLogin(); login != "" {
		owner = login
	}
	fullName := payload.GetFullName()
	if fullName == "" {
		fullName = owner + "/" + payload.GetName()
	}
	return &schema.RepoInfo{
		Owner:           owner,
		Name:            payload.GetName(),
		FullName:        fullName,
		Description:     payload.GetDescription(),
		HTMLURL:         payload.GetHTMLURL(),
		DefaultBranch:   payload.GetDefaultBranch(),
		PrimaryLanguage: payload.GetLanguage(),
		Stars:           payload.GetStargazersCount(),
		Forks:           payload.GetForksCount(),
		Watchers:        payload.GetWatchersCount(),
		OpenIssues:      payload.GetOpenIssuesCount(),
	}, nil
}
