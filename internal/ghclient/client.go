// Package ghclient fetches repository activity from the GitHub REST API.
// Responses are validated here and converted into schema records before reaching the pipeline.
package ghclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/repopulse/internal/contract"
)

// Fetch limits and page sizes.
const (
	pageSize           = 100
	issueLimit         = 500
	commitLimit        = 1000
	stargazerLimit     = 100
	codeFrequencyPolls = 3
	codeFrequencyWait  = 2 * time.Second
)

// Options configures a Client.
type Options struct {
	Token     string             // optional bearer credential
	BaseURL   string             // API base, defaults to the public API
	Retries   int                // retry budget per request
	Sleep     contract.SleepFunc // defaults to contract.SleepContext
	Transport http.RoundTripper  // defaults to http.DefaultTransport
}

// Client implements contract.RepoClient on top of go-github.
type Client struct {
	gh    *github.Client
	sleep contract.SleepFunc
}

var _ contract.RepoClient = &Client{} // Compile-time check

// New builds a Client whose transport retries transient failures.
func New(opts Options) (*Client, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = contract.SleepContext
	}
	httpClient := &http.Client{
		Transport: NewRetryTransport(opts.Transport, opts.Retries, sleep),
	}

	gh := github.NewClient(httpClient)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		baseURL, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = baseURL
	}
	return &Client{gh: gh, sleep: sleep}, nil
}

// parseBaseURL validates an API base URL and guarantees the trailing slash go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing scheme or host", raw)
	}
	return u, nil
}

// statusCode extracts the HTTP status from a response or a go-github error.
func statusCode(resp *github.Response, err error) int {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return http.StatusForbidden
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return http.StatusForbidden
	}
	return 0
}

// isServerError reports whether the failure came from a 5xx response.
func isServerError(resp *github.Response, err error) bool {
	return statusCode(resp, err) >= http.StatusInternalServerError
}

// report forwards pagination progress when a callback is present.
func report(onPage contract.PageFunc, fetched, limit int) {
	if onPage != nil {
		onPage(min(fetched, limit), limit)
	}
}

// logRateLimit warns when the remaining request budget gets low.
func logRateLimit(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	if resp.Rate.Remaining < 100 {
		contract.Logger.Warnf("rate limit low: %d/%d remaining", resp.Rate.Remaining, resp.Rate.Limit)
	}
}
