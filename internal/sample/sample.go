// Package sample draws random articles from cached issues.
package sample

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/logger"
)

// PerIssue is the most articles taken from a single issue.
const PerIssue = 3

// Source is the part of cache.Cache the sampler reads.
type Source interface {
	Numbers(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (*cache.Issue, error)
}

// Sampler is safe for concurrent use.
type Sampler struct {
	src Source
	log logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a sampler seeded from the clock. Use NewWithRand for
// reproducible draws.
func New(src Source, log logger.Logger) *Sampler {
	seed := uint64(time.Now().UnixNano())
	return NewWithRand(src, rand.New(rand.NewPCG(seed, seed>>1)), log)
}

func NewWithRand(src Source, rng *rand.Rand, log logger.Logger) *Sampler {
	return &Sampler{src: src, rng: rng, log: log}
}

// Quota is the number of issues drawn for count: count/2 rounded half up.
func Quota(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + 1) / 2
}

// Sample picks Quota(count) distinct cached issues at random and up to
// PerIssue distinct articles from each, concatenated in pick order. Issues
// that cannot be read or have no articles are skipped without using quota.
func (s *Sampler) Sample(ctx context.Context, count int) ([]cache.Article, error) {
	out := []cache.Article{}
	quota := Quota(count)
	if quota == 0 {
		return out, nil
	}

	keys, err := s.src.Numbers(ctx)
	if err != nil {
		return nil, err
	}

	used := 0
	for _, i := range s.perm(len(keys)) {
		if used == quota {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issue, err := s.src.Get(ctx, keys[i])
		if err != nil {
			s.log.Debug("skipping unreadable issue",
				logger.String("issue", keys[i]), logger.Error(err))
			continue
		}
		if len(issue.Articles) == 0 {
			continue
		}
		out = append(out, s.pick(issue.Articles)...)
		used++
	}
	return out, nil
}

func (s *Sampler) pick(articles []cache.Article) []cache.Article {
	n := min(PerIssue, len(articles))
	picked := make([]cache.Article, 0, n)
	for _, j := range s.perm(len(articles))[:n] {
		picked = append(picked, articles[j])
	}
	return picked
}

// perm guards the generator; *rand.Rand is not safe for concurrent use.
func (s *Sampler) perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Perm(n)
}
