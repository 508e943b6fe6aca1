// internal/service/expiry/application/sweeper.go
package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/tracing"
	"github.com/klausterra/alpha-se-1/internal/zookeeper"
)

const (
	LockName        = "expiry-sweeper"
	DefaultInterval = time.Hour
)

// Locker is the cluster-wide lock held while sweeping.
type Locker interface {
	TryLock() error
	Unlock() error
}

type VisitorExpirer interface {
	ExpireVisitors(ctx context.Context) (int64, error)
}

type ListingExpirer interface {
	ExpireListings(ctx context.Context) (int64, error)
}

// Report is the outcome of one sweep.
type Report struct {
	Skipped  bool
	Visitors int64
	Listings int64
}

// Sweeper expires lapsed visitors and listings on a fixed interval. Only the
// instance holding the lock sweeps.
type Sweeper struct {
	lock     Locker
	visitors VisitorExpirer
	listings ListingExpirer
	interval time.Duration
	tracer   trace.Tracer
	done     chan struct{}
}

// NewSweeper builds a sweeper; a nil lock sweeps unconditionally.
func NewSweeper(lock Locker, visitors VisitorExpirer, listings ListingExpirer, interval time.Duration, tracer trace.Tracer) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{lock: lock, visitors: visitors, listings: listings, interval: interval, tracer: tracer}
}

// Run sweeps immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	logger.Ctx(ctx).Info().Dur("interval", s.interval).Msg("✅ Expiry sweeper started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("expiry sweep failed")
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			logger.Ctx(ctx).Info().Msg("🛑 Expiry sweeper stopped")
			return ctx.Err()
		}
	}
}

// Start runs the sweeper in the background until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_ = s.Run(ctx)
	}()
	return nil
}

// Stop waits for the running sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) {
	if s.done == nil {
		return
	}
	select {
	case <-s.done:
	case <-ctx.Done():
	}
}

// RunOnce performs a single sweep. Both passes run even if one fails.
func (s *Sweeper) RunOnce(ctx context.Context) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "app.ExpirySweep")
	defer span.End()

	// 1. Take the lock
	if s.lock != nil {
		if err := s.lock.TryLock(); err != nil {
			if errors.Is(err, zookeeper.ErrLockHeld) {
				logger.Ctx(ctx).Debug().Msg("another instance is sweeping, skipping")
				return Report{Skipped: true}, nil
			}
			return Report{}, tracing.Fail(span, errors.Wrap(err, "acquire sweep lock"))
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Msg("failed to release sweep lock")
			}
		}()
	}

	// 2. Expire visitors, then listings
	var report Report
	var firstErr error
	n, err := s.visitors.ExpireVisitors(ctx)
	if err != nil {
		firstErr = errors.Wrap(err, "expire visitors")
	}
	report.Visitors = n

	n, err = s.listings.ExpireListings(ctx)
	if err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "expire listings")
	}
	report.Listings = n

	span.SetAttributes(attribute.Int64("users.expired", report.Visitors), attribute.Int64("listings.expired", report.Listings))
	logger.Ctx(ctx).Info().Int64("visitors", report.Visitors).Int64("listings", report.Listings).Msg("⏰ Expiry sweep finished")
	return report, tracing.Fail(span, firstErr)
}
