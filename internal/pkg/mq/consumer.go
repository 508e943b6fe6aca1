// internal/pkg/mq/consumer.go
package mq

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

// Headers attached to dead-lettered messages.
const (
	HeaderOriginalTopic     = "x-original-topic"
	HeaderOriginalPartition = "x-original-partition"
	HeaderOriginalOffset    = "x-original-offset"
	HeaderExceptionFqcn     = "x-exception-fqcn"
	HeaderExceptionMessage  = "x-exception-message"
)

// MessageReader is the part of *kafka.Reader a consumer depends on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// Handler processes one message. A returned error sends the message to the DLT.
type Handler func(ctx context.Context, msg kafka.Message) error

// FailureHandler forwards messages that could not be processed to a DLT.
type FailureHandler struct {
	writer MessageWriter
}

func NewFailureHandler(writer MessageWriter) *FailureHandler {
	return &FailureHandler{writer: writer}
}

// Handle writes msg to the dead-letter topic annotated with its origin and cause.
func (h *FailureHandler) Handle(ctx context.Context, msg kafka.Message, cause error) error {
	dead := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(append([]kafka.Header{}, msg.Headers...),
			kafka.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
			kafka.Header{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
			kafka.Header{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			kafka.Header{Key: HeaderExceptionFqcn, Value: []byte(fmt.Sprintf("%T", cause))},
			kafka.Header{Key: HeaderExceptionMessage, Value: []byte(cause.Error())},
		),
	}
	return h.writer.WriteMessages(ctx, dead)
}

// ConsumerAdapter drives a Handler from a Kafka topic, committing after each message.
type ConsumerAdapter struct {
	name      string
	reader    MessageReader
	handle    Handler
	onFailure *FailureHandler
	tracer    trace.Tracer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumerAdapter(name string, reader MessageReader, handle Handler, onFailure *FailureHandler) *ConsumerAdapter {
	return &ConsumerAdapter{
		name:      name,
		reader:    reader,
		handle:    handle,
		onFailure: onFailure,
		tracer:    otel.Tracer(name),
	}
}

// Start launches the consume loop in the background.
func (a *ConsumerAdapter) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		logger.Ctx(ctx).Info().Str("consumer", a.name).Str("topic", a.reader.Config().Topic).Msg("✅ Kafka consumer started.")
		for {
			msg, err := a.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Ctx(ctx).Info().Str("consumer", a.name).Msg("🛑 Kafka consumer shutting down.")
					return
				}
				logger.Ctx(ctx).Error().Err(err).Str("consumer", a.name).Msg("could not fetch message, retrying")
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			a.process(ctx, msg)

			if err := a.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				logger.Ctx(ctx).Error().Err(err).Str("consumer", a.name).Msg("failed to commit message")
			}
		}
	}()
	return nil
}

func (a *ConsumerAdapter) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	if err := a.reader.Close(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("consumer", a.name).Msg("closing reader")
	}
	logger.Ctx(ctx).Info().Str("consumer", a.name).Msg("✅ Kafka consumer stopped.")
}

func (a *ConsumerAdapter) process(parent context.Context, msg kafka.Message) {
	ctx := ExtractTraceContext(parent, msg.Headers)
	ctx, span := a.tracer.Start(ctx, a.name+".Consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
			attribute.String("messaging.kafka.message.key", string(msg.Key)),
		),
	)
	defer span.End()

	err := a.handle(ctx, msg)
	if err == nil {
		return
	}
	_ = tracing.Fail(span, err)
	logger.Ctx(ctx).Error().Err(err).Str("consumer", a.name).Int64("offset", msg.Offset).Msg("message handling failed")
	if a.onFailure == nil {
		return
	}
	if dltErr := a.onFailure.Handle(ctx, msg, err); dltErr != nil {
		logger.Ctx(ctx).Error().Err(dltErr).Str("consumer", a.name).Msg("🚨 failed to dead-letter message")
	}
}

// LogDeadLetter returns a Handler that records DLT messages for operators.
func LogDeadLetter() Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		logger.Ctx(ctx).Error().
			Str("reason", "dead_letter_message_received").
			Str("original_topic", headers[HeaderOriginalTopic]).
			Str("original_partition", headers[HeaderOriginalPartition]).
			Str("original_offset", headers[HeaderOriginalOffset]).
			Str("exception_fqcn", headers[HeaderExceptionFqcn]).
			Str("exception_message", headers[HeaderExceptionMessage]).
			Str("key", string(msg.Key)).
			Str("value", string(msg.Value)).
			Msg("🚨 CRITICAL: Dead letter message received")
		return nil
	}
}
