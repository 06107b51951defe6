// Package issue resolves an issue identifier to a parsed issue, serving it
// from the cache when possible and scraping it otherwise.
package issue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/classify"
	"github.com/matheuskafuri/jsweekly/internal/config"
	"github.com/matheuskafuri/jsweekly/internal/document"
	"github.com/matheuskafuri/jsweekly/internal/extract"
	"github.com/matheuskafuri/jsweekly/internal/logger"
	"github.com/matheuskafuri/jsweekly/internal/source"
)

// LatestID resolves the newest issue. It is never used as a cache key.
const LatestID = "latest"

// ResolveError is returned when an issue could not be fetched. Placeholder
// is the configured ERR2 value shown to clients.
type ResolveError struct {
	ID          string
	Placeholder string
	Err         error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving issue %s: %v", e.ID, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Cache is the part of cache.Cache the resolver needs.
type Cache interface {
	Get(ctx context.Context, key string) (*cache.Issue, error)
	Put(ctx context.Context, issue *cache.Issue) error
}

type Resolver struct {
	cfg       *config.Config
	fetcher   source.Fetcher
	extractor *extract.Extractor
	cache     Cache
	log       logger.Logger
}

func NewResolver(cfg *config.Config, fetcher source.Fetcher, c Cache, log logger.Logger) *Resolver {
	return &Resolver{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extract.New(cfg.Identifier, cfg.AllowedLinks),
		cache:     c,
		log:       log,
	}
}

// Latest scrapes the newest issue. It always fetches.
func (r *Resolver) Latest(ctx context.Context) (*cache.Issue, error) {
	return r.Resolve(ctx, LatestID)
}

// Resolve returns issue id from the cache or, on a miss, fetches, parses and
// caches it. Only fetch failures are returned as errors; cache failures are
// logged and do not fail the call.
func (r *Resolver) Resolve(ctx context.Context, id string) (*cache.Issue, error) {
	id = canonicalID(id)
	log := r.log.With(logger.String("issue", id))

	if cached, ok := r.lookup(ctx, id, log); ok {
		return cached, nil
	}

	url := r.sourceURL(id)
	log.Debug("fetching issue", logger.String("url", url))
	html, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("fetch failed", logger.Error(err))
		return nil, &ResolveError{ID: id, Placeholder: r.cfg.Err.ERR2, Err: err}
	}

	issue := r.Parse(url, html)
	log.Debug("parsed issue",
		logger.String("number", issue.IssueNumber.String()),
		logger.Int("articles", len(issue.Articles)))

	r.store(ctx, issue, log)
	return issue, nil
}

func (r *Resolver) lookup(ctx context.Context, id string, log logger.Logger) (*cache.Issue, bool) {
	if id == "" || id == LatestID {
		return nil, false
	}
	cached, err := r.cache.Get(ctx, id)
	switch {
	case err == nil:
		log.Debug("cache hit")
		return cached, true
	case errors.Is(err, cache.ErrNotFound):
		log.Debug("cache miss")
	default:
		log.Warn("cache read failed, fetching instead", logger.Error(err))
	}
	return nil, false
}

func (r *Resolver) store(ctx context.Context, issue *cache.Issue, log logger.Logger) {
	if !issue.IssueNumber.Valid() {
		log.Info("not caching issue without a number", logger.String("url", issue.IssueURL))
		return
	}
	if err := r.cache.Put(ctx, issue); err != nil {
		log.Warn("cache write failed", logger.Error(err))
	}
}

// canonicalID trims id and rewrites positive numbers in decimal form, so
// "0123" and "123" share a cache entry.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil && n > 0 {
		return strconv.Itoa(n)
	}
	return id
}

func (r *Resolver) sourceURL(id string) string {
	if id == "" || id == LatestID {
		return r.cfg.Latest
	}
	return r.cfg.IssueRoot + id
}

// Parse builds an issue from fetched HTML. It never fails; unreadable
// numbers and dates become the configured placeholders.
func (r *Resolver) Parse(url, html string) *cache.Issue {
	doc := document.Load(html)

	candidates := r.extractor.Articles(doc)
	articles := make([]cache.Article, 0, len(candidates))
	for _, c := range candidates {
		articles = append(articles, cache.Article{
			Title:   c.Title,
			Href:    c.Href,
			Snippet: classify.Classify(c.Fragments, r.cfg.MinArticleSummaryLen),
		})
	}

	return &cache.Issue{
		IssueNumber: extract.IssueNumber(doc, r.cfg.Err.ERR1),
		IssueDate:   extract.IssueDate(doc, r.cfg.Err.ERR3),
		IssueURL:    url,
		Articles:    articles,
	}
}
