// Package reader extracts the readable body of an arbitrary web page.
package reader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/matheuskafuri/jsweekly/internal/source"
)

// ErrMissingURL is returned when no page URL was given.
var ErrMissingURL = errors.New("URL not sent")

type Page struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type Reader interface {
	Read(ctx context.Context, pageURL string) (*Page, error)
}

// ReadabilityReader downloads a page with the issue fetcher and runs it
// through readability.
type ReadabilityReader struct {
	fetcher source.Fetcher
}

func NewReadabilityReader(fetcher source.Fetcher) *ReadabilityReader {
	return &ReadabilityReader{fetcher: fetcher}
}

func (r *ReadabilityReader) Read(ctx context.Context, pageURL string) (*Page, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, ErrMissingURL
	}
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid url %q", pageURL)
	}

	html, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", pageURL, err)
	}

	return &Page{
		Title:   strings.TrimSpace(article.Title),
		URL:     pageURL,
		Content: strings.TrimSpace(article.Content),
	}, nil
}
