// Package schedule keeps the cache warm by scraping the latest issue on a
// cron schedule.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/logger"
)

// Target is refreshed on every tick. The result is discarded.
type Target interface {
	Latest(ctx context.Context) (*cache.Issue, error)
}

type Refresher struct {
	target Target
	cron   *cron.Cron
	log    logger.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// New validates schedule (standard five fields or an @ descriptor) and
// prepares a refresher running in loc.
func New(target Target, schedule string, loc *time.Location, log logger.Logger) (*Refresher, error) {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("parsing refresh schedule %q: %w", schedule, err)
	}

	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{
		target: target,
		cron:   c,
		log:    log.With(logger.String("component", "refresher")),
		ctx:    ctx,
		cancel: cancel,
	}
	if _, err := c.AddFunc(schedule, r.refresh); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduling refresh: %w", err)
	}
	return r, nil
}

// Start refreshes once right away and then on every scheduled tick.
func (r *Refresher) Start() {
	r.log.Info("starting refresher")
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.refresh()
	}()
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh. If ctx expires
// first the refresh is cancelled and ctx's error returned.
func (r *Refresher) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		<-r.cron.Stop().Done()
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		r.log.Info("refresher stopped")
		return nil
	case <-ctx.Done():
		r.cancel()
		return ctx.Err()
	}
}

// refresh runs at most one Latest call at a time, whether started by Start
// or by a tick.
func (r *Refresher) refresh() {
	if r.ctx.Err() != nil {
		return
	}
	if !r.running.CompareAndSwap(false, true) {
		r.log.Debug("refresh already running, skipping tick")
		return
	}
	defer r.running.Store(false)

	start := time.Now()
	issue, err := r.target.Latest(r.ctx)
	if err != nil {
		r.log.Warn("refresh failed", logger.Error(err))
		return
	}
	r.log.Info("refreshed latest issue",
		logger.String("issue", issue.IssueNumber.String()),
		logger.Int("articles", len(issue.Articles)),
		logger.Duration("took", time.Since(start)))
}

// cronLogger routes cron's own messages through our logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(fields(keysAndValues), logger.Error(err))...)
}

func fields(kv []any) []logger.Field {
	out := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
