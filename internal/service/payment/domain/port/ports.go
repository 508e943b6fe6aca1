// internal/service/payment/domain/port/ports.go
package port

import (
	"context"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain"
)

// CheckoutGateway is implemented by platform.Client.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, req platform.CheckoutRequest) (platform.CheckoutSession, error)
}

// Payer is the account a payment is credited to.
type Payer struct {
	UserID     string
	Email      string
	ReferrerID string
}

type Payers interface {
	MarkPaid(ctx context.Context, email string) (Payer, error)
}

type EventPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, ev domain.PaymentConfirmed) error
}

// IdempotencyGuard claims a key for ttl; the first caller wins. Exists
// tells whether a key is currently claimed.
type IdempotencyGuard interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
