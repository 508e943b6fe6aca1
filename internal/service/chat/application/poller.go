// internal/service/chat/application/poller.go
package application

import (
	"context"
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
)

// FetchFunc returns messages created strictly after since, oldest first.
type FetchFunc func(ctx context.Context, since time.Time) ([]*domain.Message, error)

// Poller re-reads a conversation on a fixed interval and hands every new
// message to deliver exactly once. The cursor trails the newest message by
// overlap so rows committed with the same timestamp are not skipped; ids
// already delivered are dropped.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	overlap  time.Duration

	cursor time.Time
	seen   map[string]time.Time
}

const (
	DefaultPollInterval = 5 * time.Second
	pollOverlap         = time.Second
)

func NewPoller(fetch FetchFunc, interval time.Duration, since time.Time) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		overlap:  pollOverlap,
		cursor:   since,
		seen:     make(map[string]time.Time),
	}
}

// Run polls until ctx is done. A failed fetch is reported to onError and
// retried on the next tick.
func (p *Poller) Run(ctx context.Context, deliver func([]*domain.Message), onError func(error)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if fresh, err := p.Poll(ctx); err != nil {
			if onError != nil {
				onError(err)
			}
		} else if len(fresh) > 0 {
			deliver(fresh)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs one fetch and returns only messages not delivered before.
func (p *Poller) Poll(ctx context.Context) ([]*domain.Message, error) {
	since := p.cursor
	if !since.IsZero() {
		since = since.Add(-p.overlap)
	}
	msgs, err := p.fetch(ctx, since)
	if err != nil {
		return nil, err
	}

	var fresh []*domain.Message
	for _, m := range msgs {
		if _, ok := p.seen[m.ID]; ok {
			continue
		}
		p.seen[m.ID] = m.CreatedAt
		fresh = append(fresh, m)
		if m.CreatedAt.After(p.cursor) {
			p.cursor = m.CreatedAt
		}
	}
	p.prune()
	return fresh, nil
}

// Cursor is the creation time of the newest delivered message.
func (p *Poller) Cursor() time.Time {
	return p.cursor
}

func (p *Poller) prune() {
	horizon := p.cursor.Add(-2 * p.overlap)
	for id, at := range p.seen {
		if at.Before(horizon) {
			delete(p.seen, id)
		}
	}
}
