// internal/service/payment/domain/events.go
package domain

import "time"

// PaymentConfirmed is published on the payments topic once a visitor's
// checkout completes. PaymentID is the checkout session id.
type PaymentConfirmed struct {
	EventID     string    `json:"event_id"`
	PaymentID   string    `json:"payment_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	ReferrerID  string    `json:"influencer_id,omitempty"`
	Amount      float64   `json:"amount"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
