package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/pkg/redis"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain/port"
)

type fakeCheckout struct {
	got  platform.CheckoutRequest
	resp platform.CheckoutSession
	err  error
}

func (f *fakeCheckout) CreateCheckout(_ context.Context, req platform.CheckoutRequest) (platform.CheckoutSession, error) {
	f.got = req
	return f.resp, f.err
}

type fakePayers struct{ paid []string }

func (f *fakePayers) MarkPaid(_ context.Context, email string) (port.Payer, error) {
	f.paid = append(f.paid, email)
	return port.Payer{UserID: "u1", Email: email, ReferrerID: "partner-1"}, nil
}

type fakeEvents struct {
	events []domain.PaymentConfirmed
	fail   bool
}

func (f *fakeEvents) PublishPaymentConfirmed(_ context.Context, ev domain.PaymentConfirmed) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, ev)
	return nil
}

var visitor = &session.Principal{UserID: "u1", Email: "v@x.com", UserType: "visitante"}

func newService(t *testing.T, co *fakeCheckout, ev *fakeEvents) (*PaymentService, *fakePayers) {
	t.Helper()
	mr := miniredis.RunT(t)
	guard := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	payers := &fakePayers{}
	svc := NewPaymentService(co, payers, ev, guard, clock.Fixed{T: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		noop.NewTracerProvider().Tracer("test"), Options{PublicBaseURL: "https://alpha.example"})
	return svc, payers
}

func TestCreateCheckout(t *testing.T) {
	co := &fakeCheckout{resp: platform.CheckoutSession{URL: "https://pay/abc", SessionID: "cs_1"}}
	svc, _ := newService(t, co, &fakeEvents{})
	ctx := context.Background()

	resident := &session.Principal{Email: "m@x.com", UserType: "morador"}
	if _, err := svc.CreateCheckout(ctx, resident); !errors.Is(err, domain.ErrVisitorsOnly) {
		t.Fatalf("resident checkout = %v", err)
	}

	url, err := svc.CreateCheckout(ctx, visitor)
	if err != nil || url != "https://pay/abc" {
		t.Fatalf("checkout = %q, %v", url, err)
	}
	if co.got.Amount != 9.90 || !strings.HasPrefix(co.got.SuccessURL, "https://alpha.example/Perfil") {
		t.Fatalf("request = %+v", co.got)
	}

	co.resp = platform.CheckoutSession{}
	if _, err := svc.CreateCheckout(ctx, visitor); !errors.Is(err, domain.ErrCheckoutFailed) {
		t.Fatalf("empty url = %v", err)
	}
}

func startCheckout(t *testing.T, svc *PaymentService, co *fakeCheckout, p *session.Principal, sessionID string) {
	t.Helper()
	co.resp = platform.CheckoutSession{URL: "https://pay/" + sessionID, SessionID: sessionID}
	if _, err := svc.CreateCheckout(context.Background(), p); err != nil {
		t.Fatal(err)
	}
}

func TestConfirmPaymentPublishesOnce(t *testing.T) {
	ev := &fakeEvents{}
	co := &fakeCheckout{}
	svc, payers := newService(t, co, ev)
	ctx := context.Background()
	startCheckout(t, svc, co, visitor, "cs_1")

	if err := svc.ConfirmPayment(ctx, visitor, " "); !errors.Is(err, domain.ErrMissingSessionID) {
		t.Fatalf("blank session = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.ConfirmPayment(ctx, visitor, "cs_1"); err != nil {
			t.Fatal(err)
		}
	}
	if len(payers.paid) != 2 {
		t.Fatalf("mark paid calls = %d", len(payers.paid))
	}
	if len(ev.events) != 1 {
		t.Fatalf("events = %d, want 1", len(ev.events))
	}
	if got := ev.events[0]; got.PaymentID != "cs_1" || got.ReferrerID != "partner-1" || got.Amount != 9.90 {
		t.Fatalf("event = %+v", got)
	}
}

func TestConfirmPaymentRejectsResident(t *testing.T) {
	ev := &fakeEvents{}
	svc, payers := newService(t, &fakeCheckout{}, ev)

	resident := &session.Principal{UserID: "r1", Email: "m@x.com", UserType: "morador"}
	if err := svc.ConfirmPayment(context.Background(), resident, "cs_1"); !errors.Is(err, domain.ErrVisitorsOnly) {
		t.Fatalf("resident confirm = %v", err)
	}
	if len(payers.paid) != 0 || len(ev.events) != 0 {
		t.Fatalf("paid = %v, events = %d", payers.paid, len(ev.events))
	}
}

func TestConfirmPaymentRequiresIssuedSession(t *testing.T) {
	ev := &fakeEvents{}
	co := &fakeCheckout{}
	svc, payers := newService(t, co, ev)
	ctx := context.Background()
	startCheckout(t, svc, co, visitor, "cs_real")

	for _, id := range []string{"cs_a", "cs_b", "cs_c", "cs_d", "cs_e"} {
		if err := svc.ConfirmPayment(ctx, visitor, id); !errors.Is(err, domain.ErrUnknownCheckout) {
			t.Fatalf("confirm %s = %v", id, err)
		}
	}
	other := &session.Principal{UserID: "u2", Email: "w@x.com", UserType: "visitante"}
	if err := svc.ConfirmPayment(ctx, other, "cs_real"); !errors.Is(err, domain.ErrUnknownCheckout) {
		t.Fatalf("confirm of another visitor's session = %v", err)
	}
	if len(payers.paid) != 0 || len(ev.events) != 0 {
		t.Fatalf("paid = %v, events = %d", payers.paid, len(ev.events))
	}

	if err := svc.ConfirmPayment(ctx, visitor, "cs_real"); err != nil {
		t.Fatal(err)
	}
	if len(ev.events) != 1 {
		t.Fatalf("events = %d, want 1", len(ev.events))
	}
}

func TestConfirmPaymentRetriesAfterPublishFailure(t *testing.T) {
	ev := &fakeEvents{fail: true}
	co := &fakeCheckout{}
	svc, _ := newService(t, co, ev)
	ctx := context.Background()
	startCheckout(t, svc, co, visitor, "cs_2")

	if err := svc.ConfirmPayment(ctx, visitor, "cs_2"); err == nil {
		t.Fatal("publish failure swallowed")
	}
	ev.fail = false
	if err := svc.ConfirmPayment(ctx, visitor, "cs_2"); err != nil {
		t.Fatal(err)
	}
	if len(ev.events) != 1 {
		t.Fatalf("events = %d", len(ev.events))
	}
}
