package ghclient

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// ErrStatsPending is returned when code frequency stats are still being computed after every poll.
var ErrStatsPending = errors.New("code frequency stats still being computed")

// GetLanguages returns a mapping from language name to byte count.
func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	languages, resp, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	logRateLimit(resp)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return languages, nil
}

// ListRecentStargazers returns up to 100 of the most recent starring events, newest first.
// The listing is ordered oldest first, so the tail pages are fetched once the last page is known.
func (c *Client) ListRecentStargazers(ctx context.Context, owner, repo string) ([]schema.Stargazer, error) {
	first, resp, err := c.listStargazerPage(ctx, owner, repo, 1)
	if err != nil {
		return nil, err
	}
	stargazers := first

	if resp.LastPage > 1 {
		last, _, err := c.listStargazerPage(ctx, owner, repo, resp.LastPage)
		if err != nil {
			return nil, err
		}
		stargazers = last
		if len(last) < stargazerLimit {
			previous := first
			if resp.LastPage > 2 {
				previous, _, err = c.listStargazerPage(ctx, owner, repo, resp.LastPage-1)
				if err != nil {
					return nil, err
				}
			}
			stargazers = append(previous, last...)
		}
	}

	sort.SliceStable(stargazers, func(i, j int) bool {
		return stargazers[i].StarredAt.After(stargazers[j].StarredAt)
	})
	if len(stargazers) > stargazerLimit {
		stargazers = stargazers[:stargazerLimit]
	}
	return stargazers, nil
}

func (c *Client) listStargazerPage(ctx context.Context, owner, repo string, page int) ([]schema.Stargazer, *github.Response, error) {
	opts := &github.ListOptions{PerPage: stargazerLimit, Page: page}
	items, resp, err := c.gh.Activity.ListStargazers(ctx, owner, repo, opts)
	logRateLimit(resp)
	if err != nil {
		return nil, resp, fmt.Errorf("list stargazers page %d: %w", page, err)
	}
	stargazers := make([]schema.Stargazer, 0, len(items))
	for _, item := range items {
		if item.GetStarredAt().IsZero() {
			contract.LogDebug("dropping stargazer without timestamp", nil)
			continue
		}
		stargazers = append(stargazers, schema.Stargazer{
			Login:     item.GetUser().GetLogin(),
			StarredAt: item.GetStarredAt().Time,
		})
	}
	return stargazers, resp, nil
}

// GetCodeFrequency returns the weekly additions and deletions series.
// The platform answers 202 while it computes the stats, so the call polls a few times with a fixed wait.
func (c *Client) GetCodeFrequency(ctx context.Context, owner, repo string) ([]schema.WeeklyCodeFrequency, error) {
	for attempt := 1; ; attempt++ {
		stats, resp, err := c.gh.Repositories.ListCodeFrequency(ctx, owner, repo)
		logRateLimit(resp)

		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			if attempt >= codeFrequencyPolls {
				return nil, ErrStatsPending
			}
			contract.LogDebug(fmt.Sprintf("code frequency pending, poll %d of %d", attempt, codeFrequencyPolls), nil)
			if err := c.sleep(ctx, codeFrequencyWait); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list code frequency: %w", err)
		}

		weeks := make([]schema.WeeklyCodeFrequency, 0, len(stats))
		for _, stat := range stats {
			weeks = append(weeks, schema.WeeklyCodeFrequency{
				Week:      stat.GetWeek().Time,
				Additions: stat.GetAdditions(),
				Deletions: stat.GetDeletions(),
			})
		}
		return weeks, nil
	}
}
