package ghclient

import (
	"io"
	"net/http"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
)

// Backoff bounds for retried requests.
const (
	retryBaseDelay = 1000 * time.Millisecond
	retryMaxDelay  = 8000 * time.Millisecond
)

// RetryTransport retries rate-limited, server-side and network failures with exponential backoff.
// Every call makes at most Retries+1 attempts. Other statuses are returned as-is.
type RetryTransport struct {
	Base    http.RoundTripper
	Retries int
	Sleep   contract.SleepFunc
}

// NewRetryTransport wraps base with the given retry budget.
func NewRetryTransport(base http.RoundTripper, retries int, sleep contract.SleepFunc) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if sleep == nil {
		sleep = contract.SleepContext
	}
	return &RetryTransport{Base: base, Retries: retries, Sleep: sleep}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		attemptReq, err := rewindRequest(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := t.Base.RoundTrip(attemptReq)
		if attempt >= t.Retries {
			return resp, err
		}
		if err == nil && !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		delay := BackoffDelay(attempt)
		if err != nil {
			contract.Logger.WithError(err).WithField("url", req.URL.String()).Debugf("network failure, retrying in %s", delay)
		} else {
			contract.Logger.WithField("url", req.URL.String()).Debugf("status %d, retrying in %s", resp.StatusCode, delay)
			drainBody(resp)
		}

		if sleepErr := t.Sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

// BackoffDelay returns min(1000 * 2^attempt, 8000) milliseconds.
func BackoffDelay(attempt int) time.Duration {
	if attempt >= 4 {
		return retryMaxDelay
	}
	return min(retryBaseDelay<<attempt, retryMaxDelay)
}

// isRetryableStatus reports whether a status is a rate limit or server failure.
func isRetryableStatus(status int) bool {
	return status == http.StatusForbidden || status >= http.StatusInternalServerError
}

// rewindRequest returns a request safe to send again, restoring the body when present.
func rewindRequest(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

// drainBody discards and closes a response body so the connection can be reused.
func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
