// Package fetcher performs HTTP retrieval with bounded retry and jittered
// backoff. Source-specific parsing happens elsewhere; this package only
// moves bytes.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// userAgent mimics a desktop browser; several of the target sites return
// empty shells to unknown clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Jitter window applied between retry attempts.
const (
	retryDelayMin = 500 * time.Millisecond
	retryDelayMax = 2 * time.Second
)

// FetchError describes a failed retrieval. Recoverable errors are retried up
// to the configured bound; terminal errors are surfaced immediately.
type FetchError struct {
	URL         string
	StatusCode  int // 0 when the request never produced a response
	Recoverable bool
	Err         error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Fetcher struct {
	client     *http.Client
	maxRetries int
	sleep      func(context.Context, time.Duration) error
}

// New builds a Fetcher with a per-request timeout and retry bound.
func New(timeout time.Duration, maxRetries int) *Fetcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		sleep:      sleepCtx,
	}
}

// Get retrieves the raw body of a URL, retrying recoverable failures with a
// jittered delay between attempts. The context cancels in-flight requests
// and aborts the retry loop.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Recoverable: false, Err: err}
	}

	var lastErr *FetchError
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt > 1 {
			if err := f.sleep(ctx, retryDelay()); err != nil {
				return nil, &FetchError{URL: rawURL, Recoverable: false, Err: err}
			}
		}

		body, ferr := f.attempt(ctx, rawURL)
		if ferr == nil {
			return body, nil
		}
		if !ferr.Recoverable {
			return nil, ferr
		}
		lastErr = ferr
	}
	return nil, lastErr
}

func (f *Fetcher) attempt(ctx context.Context, rawURL string) ([]byte, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Recoverable: false, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// Context cancellation is terminal; everything else at the
		// transport layer (reset, refused, timeout) is worth retrying.
		recoverable := !errors.Is(err, context.Canceled)
		return nil, &FetchError{URL: rawURL, Recoverable: recoverable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			URL:         rawURL,
			StatusCode:  resp.StatusCode,
			Recoverable: retryableStatus(resp.StatusCode),
			Err:         fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Recoverable: true, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return body, nil
}

// retryableStatus treats 5xx and rate limiting as transient; other 4xx are
// terminal.
func retryableStatus(code int) bool {
	if code >= 500 {
		return true
	}
	return code == http.StatusTooManyRequests
}

// retryDelay returns a uniform random delay in [retryDelayMin, retryDelayMax].
// The jitter keeps retries from forming bursts that trip rate limiters.
func retryDelay() time.Duration {
	spread := int64(retryDelayMax - retryDelayMin)
	return retryDelayMin + time.Duration(rand.Int63n(spread+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
