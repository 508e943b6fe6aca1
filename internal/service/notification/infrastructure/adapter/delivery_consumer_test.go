package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/pkg/redis"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

type fakeSender struct {
	sent []platform.Email
	fail bool
}

func (f *fakeSender) SendEmail(_ context.Context, e platform.Email) error {
	if f.fail {
		return errors.New("platform 502")
	}
	f.sent = append(f.sent, e)
	return nil
}

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func jobMessage(t *testing.T, job domain.EmailJob) kafka.Message {
	t.Helper()
	b, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Topic: "notifications", Value: b}
}

func TestKafkaJobQueueKeysByRecipient(t *testing.T) {
	w := &captureWriter{}
	job := domain.EmailJob{JobID: "j1", To: "ana@x.com", Subject: "Oi"}
	if err := NewKafkaJobQueue(w).Enqueue(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 || string(w.msgs[0].Key) != "ana@x.com" {
		t.Fatalf("msgs = %+v", w.msgs)
	}
	var got domain.EmailJob
	_ = json.Unmarshal(w.msgs[0].Value, &got)
	if got.JobID != "j1" || got.Subject != "Oi" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestDeliverySendsOncePerJob(t *testing.T) {
	mr := miniredis.RunT(t)
	guard := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	sender := &fakeSender{}
	c := NewDeliveryConsumer(sender, guard)
	msg := jobMessage(t, domain.EmailJob{JobID: "j1", To: "ana@x.com", Subject: "Oi", Body: "<p>oi</p>", FromName: "Bia"})

	for i := 0; i < 2; i++ {
		if err := c.Handle(context.Background(), msg); err != nil {
			t.Fatal(err)
		}
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d e-mails, want 1", len(sender.sent))
	}
	if e := sender.sent[0]; e.To != "ana@x.com" || e.Body != "<p>oi</p>" || e.FromName != "Bia" {
		t.Fatalf("email = %+v", e)
	}
}

func TestDeliveryFailureReleasesClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	guard := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	sender := &fakeSender{fail: true}
	c := NewDeliveryConsumer(sender, guard)
	msg := jobMessage(t, domain.EmailJob{JobID: "j2", To: "ana@x.com"})

	if err := c.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected send error")
	}
	sender.fail = false
	if err := c.Handle(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("retry not delivered: %+v", sender.sent)
	}
}

func TestDeliveryRejectsGarbage(t *testing.T) {
	c := NewDeliveryConsumer(&fakeSender{}, nil)
	if err := c.Handle(context.Background(), kafka.Message{Value: []byte("{")}); err == nil {
		t.Fatal("expected decode error")
	}
}
