// internal/service/referral/domain/port/ports.go
package port

import (
	"context"
	"time"
)

// IdempotencyGuard claims a key for ttl; the first caller wins.
type IdempotencyGuard interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// ReferredUser is one sign-up shown on the partner dashboard.
type ReferredUser struct {
	Name          string    `json:"full_name"`
	Email         string    `json:"email"`
	UserType      string    `json:"user_type"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_date"`
}

// ReferralStats counts a partner's sign-ups by period.
type ReferralStats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	LastWeek  int64 `json:"last_7_days"`
	ThisMonth int64 `json:"this_month"`
	Paid      int64 `json:"paid"`
}

// ReferredUsers reads the account context.
type ReferredUsers interface {
	Referred(ctx context.Context, partnerID string) ([]ReferredUser, error)
	Stats(ctx context.Context, partnerID string) (ReferralStats, error)
}
