// internal/service/referral/infrastructure/adapter/payment_consumer.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	paymentdomain "github.com/klausterra/alpha-se-1/internal/service/payment/domain"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
)

const paymentsConsumerGroup = "referral-commissions"

type CommissionAccruer interface {
	AccrueCommission(ctx context.Context, paymentID, partnerID string) (bool, error)
}

// PaymentConsumer credits the referring partner for every confirmed payment.
type PaymentConsumer struct {
	accruer CommissionAccruer
}

func NewPaymentConsumer(accruer CommissionAccruer) *PaymentConsumer {
	return &PaymentConsumer{accruer: accruer}
}

func (c *PaymentConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var ev paymentdomain.PaymentConfirmed
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return errors.Wrap(err, "decode payment event")
	}
	if ev.ReferrerID == "" {
		return nil
	}
	_, err := c.accruer.AccrueCommission(ctx, ev.PaymentID, ev.ReferrerID)
	if errors.Is(err, domain.ErrPartnerNotFound) {
		// partner removed after the sign-up; nothing to credit
		logger.Ctx(ctx).Warn().Str("partner_id", ev.ReferrerID).Str("payment_id", ev.PaymentID).Msg("referring partner no longer exists")
		return nil
	}
	return err
}

// Adapter consumes the payments topic; failures go to its DLT.
func (c *PaymentConsumer) Adapter(brokers []string, dlt mq.MessageWriter) *mq.ConsumerAdapter {
	reader := mq.NewKafkaReader(brokers, mq.TopicPayments, paymentsConsumerGroup)
	return mq.NewConsumerAdapter("referral-commissions", reader, c.Handle, mq.NewFailureHandler(dlt))
}
