package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/klausterra/alpha-se-1/internal/zookeeper"
)

type fakeLock struct {
	held     bool
	unlocked int
}

func (l *fakeLock) TryLock() error {
	if l.held {
		return zookeeper.ErrLockHeld
	}
	return nil
}

func (l *fakeLock) Unlock() error {
	l.unlocked++
	return nil
}

type counters struct {
	visitorRuns atomic.Int32
	visitorErr  error
}

func (c *counters) ExpireVisitors(context.Context) (int64, error) {
	c.visitorRuns.Add(1)
	return 2, c.visitorErr
}

func (c *counters) ExpireListings(context.Context) (int64, error) { return 5, nil }

func newSweeper(lock Locker, c *counters, interval time.Duration) *Sweeper {
	return NewSweeper(lock, c, c, interval, noop.NewTracerProvider().Tracer("test"))
}

func TestRunOnceHoldsLock(t *testing.T) {
	lock := &fakeLock{}
	c := &counters{}
	report, err := newSweeper(lock, c, time.Hour).RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report != (Report{Visitors: 2, Listings: 5}) || lock.unlocked != 1 {
		t.Fatalf("report = %+v, unlocked = %d", report, lock.unlocked)
	}
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	lock := &fakeLock{held: true}
	c := &counters{}
	report, err := newSweeper(lock, c, time.Hour).RunOnce(context.Background())
	if err != nil || !report.Skipped || c.visitorRuns.Load() != 0 || lock.unlocked != 0 {
		t.Fatalf("report = %+v err = %v runs = %d", report, err, c.visitorRuns.Load())
	}
}

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	c := &counters{visitorErr: errors.New("db gone")}
	report, err := newSweeper(nil, c, time.Hour).RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Listings != 5 {
		t.Fatalf("listings pass skipped: %+v", report)
	}
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	c := &counters{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newSweeper(nil, c, 10*time.Millisecond).Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for c.visitorRuns.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
}

func TestStartStop(t *testing.T) {
	c := &counters{}
	s := newSweeper(nil, c, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	s.Stop(stopCtx)
	if stopCtx.Err() != nil {
		t.Fatal("Stop did not return after cancel")
	}
	if c.visitorRuns.Load() != 1 {
		t.Fatalf("runs = %d", c.visitorRuns.Load())
	}
}
