package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Cache stores whole issues on top of a Store.
type Cache struct {
	store Store
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// Get returns the cached issue for key, or ErrNotFound.
func (c *Cache) Get(ctx context.Context, key string) (*Issue, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var issue Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, fmt.Errorf("decoding issue %s: %w: %v", key, ErrCorrupt, err)
	}
	return &issue, nil
}

// Put stores issue under its own number. Issues without a concrete number
// are rejected with ErrInvalidKey.
func (c *Cache) Put(ctx context.Context, issue *Issue) error {
	key := issue.IssueNumber.String()
	if !issue.IssueNumber.Valid() || !ValidKey(key) {
		return fmt.Errorf("caching issue %q: %w", key, ErrInvalidKey)
	}
	data, err := json.Marshal(issue)
	if err != nil {
		return fmt.Errorf("encoding issue %s: %w", key, err)
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("writing issue %s: %w", key, err)
	}
	return nil
}

// Numbers lists every cached issue number, ascending.
func (c *Cache) Numbers(ctx context.Context) ([]string, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	valid := keys[:0]
	for _, k := range keys {
		if ValidKey(k) {
			valid = append(valid, k)
		}
	}
	return sortKeys(valid), nil
}

type Stats struct {
	Issues   int
	Articles int
	Bytes    int64
}

// Stats counts cached issues and articles. Bytes is zero when the store
// cannot report a size.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	keys, err := c.Numbers(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Issues: len(keys)}
	for _, k := range keys {
		issue, err := c.Get(ctx, k)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt) {
				continue
			}
			return Stats{}, err
		}
		st.Articles += len(issue.Articles)
	}
	if s, ok := c.store.(Sizer); ok {
		if st.Bytes, err = s.Size(ctx); err != nil {
			return Stats{}, fmt.Errorf("reading size: %w", err)
		}
	}
	return st, nil
}

func (c *Cache) Close() error {
	return c.store.Close()
}
