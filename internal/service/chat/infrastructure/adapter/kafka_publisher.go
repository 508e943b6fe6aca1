// internal/service/chat/infrastructure/adapter/kafka_publisher.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain/port"
)

// KafkaEventPublisher writes message events to the chat-messages topic,
// keyed by conversation so one thread stays ordered.
type KafkaEventPublisher struct {
	writer mq.MessageWriter
}

func NewKafkaEventPublisher(writer mq.MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

func (p *KafkaEventPublisher) PublishMessage(ctx context.Context, ev port.MessageEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(ev.ConversationID), value)
}
