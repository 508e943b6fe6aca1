package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain/port"
	"github.com/klausterra/alpha-se-1/internal/service/chat/infrastructure"
)

type fakeListings map[string]port.ListingRef

func (f fakeListings) ListingForChat(_ context.Context, _ *session.Principal, id string) (port.ListingRef, error) {
	ref, ok := f[id]
	if !ok {
		return port.ListingRef{}, domain.ErrListingUnavailable
	}
	return ref, nil
}

type recorder struct {
	mu     sync.Mutex
	events []port.MessageEvent
	mails  []string
}

func (r *recorder) PublishMessage(_ context.Context, ev port.MessageEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Notify(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, to+"|"+subject+"|"+body)
	return nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

var (
	buyer    = &session.Principal{UserID: "b", Email: "buyer@x.com", FullName: "Bruno Lima"}
	seller   = &session.Principal{UserID: "s", Email: "seller@x.com", FullName: "Sara Reis"}
	outsider = &session.Principal{UserID: "o", Email: "o@x.com", FullName: "Otto"}
)

func newService(t *testing.T, rec *recorder, limiter port.RateLimiter) (*ChatService, *infrastructure.GormConversationRepository) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := infrastructure.Migrate(db); err != nil {
		t.Fatal(err)
	}
	repo := infrastructure.NewGormConversationRepository(db)
	listings := fakeListings{
		"l1": {ID: "l1", Title: "Bicicleta aro 29", OwnerEmail: "seller@x.com", OwnerName: "Sara Reis"},
	}
	svc := NewChatService(repo, listings, rec, rec, limiter,
		clock.Fixed{T: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)},
		noop.NewTracerProvider().Tracer("test"),
		Options{EmailNotifications: true, PublicBaseURL: "https://alpha.example/"})
	return svc, repo
}

func TestStartConversationIsIdempotent(t *testing.T) {
	rec := &recorder{}
	svc, repo := newService(t, rec, nil)
	ctx := context.Background()

	first, created, err := svc.StartConversation(ctx, buyer, "l1", "  Olá, ainda está disponível?  ")
	if err != nil || !created {
		t.Fatalf("first start = %v, %v", created, err)
	}
	if first.UnreadSeller != 1 || first.LastMessage != "Olá, ainda está disponível?" {
		t.Fatalf("first message not applied: %+v", first)
	}
	if first.SellerName != "Sara Reis" || first.BuyerName != "Bruno Lima" {
		t.Fatalf("denormalized names: %+v", first)
	}

	again, created, err := svc.StartConversation(ctx, buyer, "l1", "de novo")
	if err != nil || created || again.ID != first.ID {
		t.Fatalf("second start = %s, %v, %v", again.ID, created, err)
	}
	msgs, _ := repo.MessagesSince(ctx, first.ID, time.Time{})
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if len(rec.events) != 1 || rec.events[0].RecipientEmail != "seller@x.com" {
		t.Fatalf("events = %+v", rec.events)
	}
}

func TestStartConversationGuards(t *testing.T) {
	svc, repo := newService(t, &recorder{}, nil)
	ctx := context.Background()

	if _, _, err := svc.StartConversation(ctx, seller, "l1", "oi"); !errors.Is(err, domain.ErrSelfConversation) {
		t.Fatalf("self contact = %v", err)
	}
	if list, _ := repo.ListForUser(ctx, "seller@x.com"); len(list) != 0 {
		t.Fatal("self contact wrote a conversation")
	}
	if _, _, err := svc.StartConversation(ctx, buyer, "missing", ""); !errors.Is(err, domain.ErrListingUnavailable) {
		t.Fatalf("missing listing = %v", err)
	}

	long := strings.Repeat("a", domain.MaxMessageRunes+1)
	_, _, err := svc.StartConversation(ctx, buyer, "l1", long)
	var me *domain.MessageError
	if !errors.As(err, &me) {
		t.Fatalf("too long = %v", err)
	}
	if _, err := repo.FindByListingAndBuyer(ctx, "l1", buyer.Email); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("conversation not rolled back: %v", err)
	}
}

func TestStartConversationReusesThreadOfHiddenListing(t *testing.T) {
	rec := &recorder{}
	svc, repo := newService(t, rec, nil)
	ctx := context.Background()
	first, _, err := svc.StartConversation(ctx, buyer, "l1", "oi")
	if err != nil {
		t.Fatal(err)
	}

	// the listing expired or is now hidden from this buyer
	hidden := NewChatService(repo, fakeListings{}, rec, rec, nil,
		clock.Fixed{T: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)},
		noop.NewTracerProvider().Tracer("test"), Options{})
	again, created, err := hidden.StartConversation(ctx, buyer, "l1", "")
	if err != nil || created || again.ID != first.ID {
		t.Fatalf("start on hidden listing = %v, %v, %v", again, created, err)
	}
	if _, _, err := hidden.StartConversation(ctx, outsider, "l1", ""); !errors.Is(err, domain.ErrListingUnavailable) {
		t.Fatalf("new buyer on hidden listing = %v", err)
	}
}

func TestStartConversationFirstMessageRateLimited(t *testing.T) {
	rec := &recorder{}
	svc, repo := newService(t, rec, denyAll{})
	ctx := context.Background()

	if _, _, err := svc.StartConversation(ctx, buyer, "l1", "oi"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v", err)
	}
	if _, err := repo.FindByListingAndBuyer(ctx, "l1", buyer.Email); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("conversation not rolled back: %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("events = %+v", rec.events)
	}

	if _, created, err := svc.StartConversation(ctx, buyer, "l1", ""); err != nil || !created {
		t.Fatalf("start without message = %v, %v", created, err)
	}
}

func TestSendMessageNotifiesCounterpart(t *testing.T) {
	rec := &recorder{}
	svc, _ := newService(t, rec, nil)
	ctx := context.Background()
	conv, _, _ := svc.StartConversation(ctx, buyer, "l1", "")

	if _, err := svc.SendMessage(ctx, outsider, conv.ID, "oi"); !errors.Is(err, domain.ErrNotParticipant) {
		t.Fatalf("outsider = %v", err)
	}
	if _, err := svc.SendMessage(ctx, seller, conv.ID, "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("blank = %v", err)
	}

	m, err := svc.SendMessage(ctx, seller, conv.ID, "Sim, disponível <b>hoje</b>")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := svc.GetConversation(ctx, buyer, conv.ID)
	if got.UnreadBuyer != 1 || got.UnreadSeller != 0 {
		t.Fatalf("unread = %d/%d", got.UnreadBuyer, got.UnreadSeller)
	}

	if len(rec.mails) != 1 {
		t.Fatalf("mails = %v", rec.mails)
	}
	parts := strings.SplitN(rec.mails[0], "|", 3)
	if parts[0] != "buyer@x.com" || parts[1] != `Nova mensagem de Sara Reis sobre "Bicicleta aro 29"` {
		t.Fatalf("mail header = %v", parts[:2])
	}
	if !strings.Contains(parts[2], "https://alpha.example/Chat?id="+conv.ID) || strings.Contains(parts[2], "<b>hoje") {
		t.Fatalf("mail body = %s", parts[2])
	}
	if ev := rec.events[len(rec.events)-1]; ev.MessageID != m.ID || ev.RecipientEmail != "buyer@x.com" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestSendMessageRateLimited(t *testing.T) {
	svc, _ := newService(t, &recorder{}, denyAll{})
	ctx := context.Background()
	conv, _, err := svc.StartConversation(ctx, buyer, "l1", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendMessage(ctx, buyer, conv.ID, "oi"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v", err)
	}
}

func TestListMessagesClearsReaderUnread(t *testing.T) {
	svc, _ := newService(t, &recorder{}, nil)
	ctx := context.Background()
	conv, _, _ := svc.StartConversation(ctx, buyer, "l1", "primeira")

	msgs, err := svc.ListMessages(ctx, seller, conv.ID, time.Time{})
	if err != nil || len(msgs) != 1 {
		t.Fatalf("list = %d, %v", len(msgs), err)
	}
	got, _ := svc.GetConversation(ctx, seller, conv.ID)
	if got.UnreadSeller != 0 {
		t.Fatalf("seller unread = %d", got.UnreadSeller)
	}
	if _, err := svc.ListMessages(ctx, outsider, conv.ID, time.Time{}); !errors.Is(err, domain.ErrNotParticipant) {
		t.Fatalf("outsider = %v", err)
	}
}

func TestListAndDeleteConversations(t *testing.T) {
	svc, _ := newService(t, &recorder{}, nil)
	ctx := context.Background()
	conv, _, _ := svc.StartConversation(ctx, buyer, "l1", "Quero a bicicleta")

	found, _ := svc.ListConversations(ctx, seller, "bruno")
	if len(found) != 1 {
		t.Fatalf("search by counterpart = %d", len(found))
	}
	if none, _ := svc.ListConversations(ctx, seller, "geladeira"); len(none) != 0 {
		t.Fatalf("unmatched search = %d", len(none))
	}

	if err := svc.DeleteConversation(ctx, outsider, conv.ID); !errors.Is(err, domain.ErrNotParticipant) {
		t.Fatalf("outsider delete = %v", err)
	}
	if err := svc.DeleteConversation(ctx, seller, conv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetConversation(ctx, buyer, conv.ID); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("after delete = %v", err)
	}
}
