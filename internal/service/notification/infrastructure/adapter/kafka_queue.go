// internal/service/notification/infrastructure/adapter/kafka_queue.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

// KafkaJobQueue writes e-mail jobs to the notifications topic, keyed by
// recipient.
type KafkaJobQueue struct {
	writer mq.MessageWriter
}

func NewKafkaJobQueue(writer mq.MessageWriter) *KafkaJobQueue {
	return &KafkaJobQueue{writer: writer}
}

func (q *KafkaJobQueue) Enqueue(ctx context.Context, job domain.EmailJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return mq.ProduceMessage(ctx, q.writer, []byte(job.To), value)
}
