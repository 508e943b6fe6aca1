package adapter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"

	paymentdomain "github.com/klausterra/alpha-se-1/internal/service/payment/domain"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
)

type recordingAccruer struct {
	calls []string
	err   error
}

func (r *recordingAccruer) AccrueCommission(_ context.Context, paymentID, partnerID string) (bool, error) {
	r.calls = append(r.calls, paymentID+"|"+partnerID)
	return r.err == nil, r.err
}

func message(t *testing.T, ev paymentdomain.PaymentConfirmed) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Value: b}
}

func TestPaymentConsumer(t *testing.T) {
	acc := &recordingAccruer{}
	c := NewPaymentConsumer(acc)
	ctx := context.Background()

	if err := c.Handle(ctx, message(t, paymentdomain.PaymentConfirmed{PaymentID: "cs_0"})); err != nil || len(acc.calls) != 0 {
		t.Fatalf("unreferred payment: %v, calls=%v", err, acc.calls)
	}
	if err := c.Handle(ctx, message(t, paymentdomain.PaymentConfirmed{PaymentID: "cs_1", ReferrerID: "p1"})); err != nil {
		t.Fatal(err)
	}
	if len(acc.calls) != 1 || acc.calls[0] != "cs_1|p1" {
		t.Fatalf("calls = %v", acc.calls)
	}

	acc.err = domain.ErrPartnerNotFound
	if err := c.Handle(ctx, message(t, paymentdomain.PaymentConfirmed{PaymentID: "cs_2", ReferrerID: "gone"})); err != nil {
		t.Fatalf("removed partner should be skipped: %v", err)
	}
	if err := c.Handle(ctx, kafka.Message{Value: []byte("not json")}); err == nil {
		t.Fatal("garbage accepted")
	}
}
