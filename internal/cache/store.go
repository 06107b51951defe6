// Package cache persists parsed issues, one record per issue number.
package cache

import (
	"context"
	"errors"
	"sort"
	"strconv"
)

var (
	ErrNotFound   = errors.New("issue not cached")
	ErrInvalidKey = errors.New("cache key must be a positive issue number")
	ErrCorrupt    = errors.New("cached issue is unreadable")
)

// Store is a durable key-value mapping from issue-number strings to
// serialized issues. Put replaces the whole record.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Sizer is implemented by stores that can report their on-disk footprint.
type Sizer interface {
	Size(ctx context.Context) (int64, error)
}

// ValidKey reports whether key is the decimal form of a positive integer.
func ValidKey(key string) bool {
	n, err := strconv.Atoi(key)
	return err == nil && n > 0 && strconv.Itoa(n) == key
}

// sortKeys orders keys numerically so listings are stable across backends.
func sortKeys(keys []string) []string {
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
