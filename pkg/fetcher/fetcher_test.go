package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher(maxRetries int) *Fetcher {
	f := New(5*time.Second, maxRetries)
	f.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return f
}

func TestGet_RetriesThenSucceeds(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(3).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Errorf("Get() body = %q, want payload from third attempt", body)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGet_RetriesExhausted(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher(3).Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get() error = nil, want exhausted retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if !ferr.Recoverable {
		t.Error("FetchError.Recoverable = false, want true for 503")
	}
}

func TestGet_TerminalStatusNotRetried(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(3).Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get() error = nil, want terminal failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (404 must not be retried)", attempts)
	}

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if ferr.Recoverable {
		t.Error("FetchError.Recoverable = true, want false for 404")
	}
}

func TestGet_MalformedURL(t *testing.T) {
	_, err := newTestFetcher(3).Get(context.Background(), "not a url")
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if ferr.Recoverable {
		t.Error("malformed URL should be terminal")
	}
}

func TestGet_RateLimitIsRecoverable(t *testing.T) {
	if !retryableStatus(http.StatusTooManyRequests) {
		t.Error("429 should be retryable")
	}
	if retryableStatus(http.StatusForbidden) {
		t.Error("403 should be terminal")
	}
}

func TestRetryDelayBounded(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := retryDelay()
		if d < retryDelayMin || d > retryDelayMax {
			t.Fatalf("retryDelay() = %v, want within [%v, %v]", d, retryDelayMin, retryDelayMax)
		}
	}
}
