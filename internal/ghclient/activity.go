package ghclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// ListCommits pages through commits made after since, up to 1000 items.
// A server error ends the listing with partial results.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, since time.Time, onPage contract.PageFunc) ([]schema.Commit, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var commits []schema.Commit
	for len(commits) < commitLimit {
		page, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
		logRateLimit(resp)
		if err != nil {
			if isServerError(resp, err) {
				contract.LogDebug(fmt.Sprintf("commit listing stopped early after %d commits", len(commits)), err)
				return commits, nil
			}
			return commits, fmt.Errorf("list commits: %w", err)
		}

		for _, item := range page {
			if commit, ok := toCommit(item); ok {
				commits = append(commits, commit)
			}
		}
		report(onPage, len(commits), commitLimit)

		if len(page) < pageSize || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if len(commits) > commitLimit {
		commits = commits[:commitLimit]
	}
	return commits, nil
}

// ListReleases pages through releases up to limit, newest first, skipping drafts.
// A server error ends the listing with partial results.
func (c *Client) ListReleases(ctx context.Context, owner, repo string, limit int, onPage contract.PageFunc) ([]schema.Release, error) {
	opts := &github.ListOptions{PerPage: pageSize}

	var releases []schema.Release
	fetched := 0
	for fetched < limit {
		page, resp, err := c.gh.Repositories.ListReleases(ctx, owner, repo, opts)
		logRateLimit(resp)
		if err != nil {
			if isServerError(resp, err) {
				contract.LogDebug(fmt.Sprintf("release listing stopped early after %d releases", fetched), err)
				return releases, nil
			}
			return releases, fmt.Errorf("list releases: %w", err)
		}

		for _, item := range page {
			if fetched >= limit {
				break
			}
			fetched++
			if item.GetDraft() {
				continue
			}
			if release, ok := toRelease(item); ok {
				releases = append(releases, release)
			}
		}
		report(onPage, fetched, limit)

		if len(page) < pageSize || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return releases, nil
}

func toCommit(item *github.RepositoryCommit) (schema.Commit, bool) {
	if item.GetSHA() == "" {
		contract.LogDebug("dropping commit without sha", nil)
		return schema.Commit{}, false
	}
	author := item.GetCommit().GetAuthor()
	return schema.Commit{
		SHA:         item.GetSHA(),
		AuthorLogin: item.GetAuthor().GetLogin(),
		AuthorEmail: author.GetEmail(),
		Date:        author.GetDate().Time,
	}, true
}

func toRelease(item *github.RepositoryRelease) (schema.Release, bool) {
	if item.GetPublishedAt().IsZero() {
		contract.LogDebug(fmt.Sprintf("dropping release %q without publish time", item.GetTagName()), nil)
		return schema.Release{}, false
	}
	assets := make([]schema.ReleaseAsset, 0, len(item.Assets))
	for _, asset := range item.Assets {
		assets = append(assets, schema.ReleaseAsset{
			Name:          asset.GetName(),
			Size:          asset.GetSize(),
			DownloadCount: asset.GetDownloadCount(),
		})
	}
	name := item.GetName()
	if name == "" {
		name = item.GetTagName()
	}
	return schema.Release{
		TagName:     item.GetTagName(),
		Name:        name,
		PublishedAt: item.GetPublishedAt().Time,
		Prerelease:  item.GetPrerelease(),
		Assets:      assets,
	}, true
}
