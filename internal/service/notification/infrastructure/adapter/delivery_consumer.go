// internal/service/notification/infrastructure/adapter/delivery_consumer.go
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

const (
	deliveryConsumerGroup = "notification-delivery"
	deliveredClaimTTL     = 24 * time.Hour
)

// EmailSender is the platform mail function.
type EmailSender interface {
	SendEmail(ctx context.Context, email platform.Email) error
}

// DeliveryGuard stops a redelivered job from sending twice.
type DeliveryGuard interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// DeliveryConsumer sends queued e-mail jobs through the platform.
type DeliveryConsumer struct {
	sender EmailSender
	guard  DeliveryGuard
}

// NewDeliveryConsumer builds the consumer; guard may be nil.
func NewDeliveryConsumer(sender EmailSender, guard DeliveryGuard) *DeliveryConsumer {
	return &DeliveryConsumer{sender: sender, guard: guard}
}

func (c *DeliveryConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var job domain.EmailJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		metrics.EmailsDelivered.WithLabelValues("invalid").Inc()
		return errors.Wrap(err, "decode e-mail job")
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("email.job_id", job.JobID), attribute.String("email.kind", job.Kind))

	key := "email:" + job.JobID
	if c.guard != nil && job.JobID != "" {
		ok, err := c.guard.Once(ctx, key, deliveredClaimTTL)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("job_id", job.JobID).Msg("delivery guard unavailable")
		} else if !ok {
			metrics.EmailsDelivered.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	err := c.sender.SendEmail(ctx, platform.Email{
		To:        job.To,
		Subject:   job.Subject,
		Body:      job.Body,
		FromEmail: job.FromEmail,
		FromName:  job.FromName,
	})
	if err != nil {
		metrics.EmailsDelivered.WithLabelValues("failed").Inc()
		if c.guard != nil && job.JobID != "" {
			if relErr := c.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
				logger.Ctx(ctx).Warn().Err(relErr).Str("job_id", job.JobID).Msg("failed to release delivery claim")
			}
		}
		return err
	}

	metrics.EmailsDelivered.WithLabelValues("sent").Inc()
	span.AddEvent("E-mail sent")
	logger.Ctx(ctx).Info().Str("job_id", job.JobID).Str("kind", job.Kind).Str("to", job.To).Msg("✅ E-mail delivered")
	return nil
}

// Adapter consumes the notifications topic; failures go to its DLT.
func (c *DeliveryConsumer) Adapter(brokers []string, dlt mq.MessageWriter) *mq.ConsumerAdapter {
	reader := mq.NewKafkaReader(brokers, mq.TopicNotifications, deliveryConsumerGroup)
	return mq.NewConsumerAdapter("notification-delivery", reader, c.Handle, mq.NewFailureHandler(dlt))
}
