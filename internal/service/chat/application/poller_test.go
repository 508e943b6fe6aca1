package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
)

type memSource struct {
	mu    sync.Mutex
	msgs  []*domain.Message
	calls []time.Time
	fail  bool
}

func (s *memSource) add(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, &domain.Message{ID: id, CreatedAt: at})
}

func (s *memSource) fetch(_ context.Context, since time.Time) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, since)
	if s.fail {
		return nil, errors.New("offline")
	}
	var out []*domain.Message
	for _, m := range s.msgs {
		if since.IsZero() || m.CreatedAt.After(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestPollDeduplicatesSameInstantMessages(t *testing.T) {
	src := &memSource{}
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	src.add("m1", at)

	p := NewPoller(src.fetch, time.Second, time.Time{})
	first, err := p.Poll(context.Background())
	if err != nil || len(first) != 1 {
		t.Fatalf("first poll = %d, %v", len(first), err)
	}

	// committed later with the same timestamp as the cursor
	src.add("m2", at)
	second, _ := p.Poll(context.Background())
	if len(second) != 1 || second[0].ID != "m2" {
		t.Fatalf("second poll = %v", second)
	}
	if third, _ := p.Poll(context.Background()); len(third) != 0 {
		t.Fatalf("third poll redelivered %d", len(third))
	}
	if !p.Cursor().Equal(at) {
		t.Fatalf("cursor = %v", p.Cursor())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &memSource{}
	src.add("m1", time.Now().UTC())
	p := NewPoller(src.fetch, 10*time.Millisecond, time.Time{})

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, func(ms []*domain.Message) {
			for _, m := range ms {
				got <- m.ID
			}
		}, nil)
	}()

	select {
	case id := <-got:
		if id != "m1" {
			t.Fatalf("delivered %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("nothing delivered")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	if len(got) != 0 {
		t.Fatalf("duplicate delivery: %d extra", len(got))
	}
}

func TestRunReportsFetchErrors(t *testing.T) {
	src := &memSource{fail: true}
	p := NewPoller(src.fetch, 5*time.Millisecond, time.Time{})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var mu sync.Mutex
	errs := 0
	_ = p.Run(ctx, func([]*domain.Message) { t.Error("delivered while offline") }, func(error) {
		mu.Lock()
		errs++
		mu.Unlock()
	})
	mu.Lock()
	defer mu.Unlock()
	if errs < 2 {
		t.Fatalf("errors reported = %d", errs)
	}
}
