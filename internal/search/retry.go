package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wikiforge/wikiforge/internal/agent"
)

// retryableStatuses are the HTTP statuses worth retrying under the shared
// backoff schedule; extraRetryable lets a specific provider add a status of
// its own without every other provider inheriting it. A 2xx status is always
// treated as success, so it is never retried.
var retryableStatuses = map[int]bool{429: true, 503: true, 504: true}

// httpClient is the narrow capability doGet needs; *http.Client satisfies it
// directly, letting tests substitute a fake transport without constructing a
// real Client.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// doGet issues an HTTP GET against url, retrying on retryableStatuses (plus
// any in extraRetryable) per policy, and returning the response body capped
// at 2MB. A non-retryable non-2xx status returns (nil, nil) rather than an
// error, so a single unreachable or paywalled source never fails the whole
// search call.
func doGet(ctx context.Context, client httpClient, policy agent.RetryPolicy, url string, extraRetryable ...int) ([]byte, error) {
	extra := map[int]bool{}
	for _, s := range extraRetryable {
		extra[s] = true
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := policy.Sleep(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("search: building request for %q: %w", url, err)
		}
		req.Header.Set("User-Agent", "wikiforge/1.0 (+https://github.com/wikiforge/wikiforge)")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("search: reading response from %q: %w", url, err)
			}
			return body, nil
		}

		retryable := retryableStatuses[resp.StatusCode] || extra[resp.StatusCode]
		resp.Body.Close()
		if !retryable {
			return nil, nil
		}
		lastErr = fmt.Errorf("search: %q returned status %d", url, resp.StatusCode)
	}

	return nil, fmt.Errorf("search: exhausted retries fetching %q: %w", url, lastErr)
}

// defaultHTTPClient is shared by every HTTP-backed provider that does not
// need a bespoke transport.
var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}
