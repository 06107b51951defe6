// Package source retrieves raw issue HTML over HTTP.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrFetch matches every fetch failure.
var ErrFetch = errors.New("fetch failed")

// FetchError describes a failed GET. StatusCode is zero for transport errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// HTTPFetcher issues a single GET per call. It never retries.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}
	return &HTTPFetcher{
		client:    NewClient(opts.Timeout),
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
	}
}

// NewClient returns the client shared by every outbound request.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return string(body), nil
}
