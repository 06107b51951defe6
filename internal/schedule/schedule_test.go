package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/logger"
)

type countingTarget struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (c *countingTarget) Latest(ctx context.Context) (*cache.Issue, error) {
	c.calls.Add(1)
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &cache.Issue{IssueNumber: cache.NumberOf(1), Articles: []cache.Article{}}, nil
}

// yearly keeps the cron tick out of the way of tests that only exercise the
// initial refresh.
const yearly = "0 0 1 1 *"

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestNewRejectsBadSchedule(t *testing.T) {
	for _, expr := range []string{"", "every day", "0 0 */2 * * *", "61 * * * *"} {
		if _, err := New(&countingTarget{}, expr, time.UTC, logger.NewNop()); err == nil {
			t.Errorf("expected error for schedule %q", expr)
		}
	}
}

func TestNewAcceptsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	r, err := New(&countingTarget{}, "0 */2 * * *", loc, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start: %v", err)
	}
}

func TestStartRefreshesImmediately(t *testing.T) {
	target := &countingTarget{}
	r, err := New(target, yearly, time.UTC, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	waitFor(t, 2*time.Second, func() bool { return target.calls.Load() == 1 })

	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestRefreshErrorsAreNotFatal(t *testing.T) {
	target := &countingTarget{err: errors.New("upstream down")}
	r, err := New(target, "@every 1s", time.UTC, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	waitFor(t, 5*time.Second, func() bool { return target.calls.Load() >= 2 })

	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestStopWaitsForRunningRefresh(t *testing.T) {
	target := &countingTarget{block: make(chan struct{})}
	r, err := New(target, yearly, time.UTC, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	waitFor(t, 2*time.Second, func() bool { return target.calls.Load() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := r.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while refresh blocks, got %v", err)
	}
}

func TestStopAfterRefreshCompletes(t *testing.T) {
	target := &countingTarget{block: make(chan struct{})}
	r, err := New(target, yearly, time.UTC, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	waitFor(t, 2*time.Second, func() bool { return target.calls.Load() == 1 })

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(target.block)
	}()
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestTickSkippedWhileInitialRefreshRuns(t *testing.T) {
	target := &countingTarget{block: make(chan struct{})}
	r, err := New(target, yearly, time.UTC, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	waitFor(t, 2*time.Second, func() bool { return target.calls.Load() == 1 })

	// A tick arriving now must not start a second fetch.
	r.refresh()
	if n := target.calls.Load(); n != 1 {
		t.Errorf("expected 1 call while the first refresh runs, got %d", n)
	}

	close(target.block)
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// Once idle, a refresh goes through again.
	r2, err := New(&countingTarget{}, yearly, time.UTC, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r2.refresh()
	r2.refresh()
	if n := r2.target.(*countingTarget).calls.Load(); n != 2 {
		t.Errorf("expected sequential refreshes to both run, got %d", n)
	}
}
