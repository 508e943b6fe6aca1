// internal/service/payment/infrastructure/adapter/kafka_publisher.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain"
)

// KafkaEventPublisher writes payment confirmations to the payments topic,
// keyed by user.
type KafkaEventPublisher struct {
	writer mq.MessageWriter
}

func NewKafkaEventPublisher(writer mq.MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

func (p *KafkaEventPublisher) PublishPaymentConfirmed(ctx context.Context, ev domain.PaymentConfirmed) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(ev.UserID), value)
}
