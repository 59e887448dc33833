// Package fetch retrieves page and script text from the reservation site.
//
// Every result is cached under the exact URL string, and every failure mode
// (timeout, connection error, non-2xx status) is downgraded to a miss rather
// than an error: callers treat an unreachable page the same as a page with no
// extractable data.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/courtwatch/internal/cache"
)

const (
	// UserAgent identifies the client on outbound requests.
	UserAgent = "courtwatch/1.0 (github.com/pfrederiksen/courtwatch)"

	// Timeout bounds a single request attempt.
	Timeout = 30 * time.Second

	retryInterval = 500 * time.Millisecond
	maxRetries    = 2
)

// Fetcher fetches text bodies with caching and transient-failure retry.
type Fetcher struct {
	client *http.Client
	cache  *cache.Cache[string]
	ttl    time.Duration
}

// New creates a Fetcher storing successful bodies in pageCache for ttl.
func New(pageCache *cache.Cache[string], ttl time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: Timeout},
		cache:  pageCache,
		ttl:    ttl,
	}
}

// Text returns the body at rawURL, sending the Referer header when referer is
// non-empty. The second return value is false when no body could be obtained.
func (f *Fetcher) Text(ctx context.Context, rawURL, referer string) (string, bool) {
	if body, ok := f.cache.Get(rawURL); ok {
		slog.Debug("page cache hit", "url", rawURL)
		return body, true
	}

	var body string
	attempt := func() error {
		b, err := f.get(ctx, rawURL, referer)
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetries),
		ctx,
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		slog.Warn("fetch failed", "url", rawURL, "error", err)
		return "", false
	}

	f.cache.Set(rawURL, body, f.ttl)
	return body, true
}

func (f *Fetcher) get(ctx context.Context, rawURL, referer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(ctx.Err())
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client errors do not become success on retry.
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
