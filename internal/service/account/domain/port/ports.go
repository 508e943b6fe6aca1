// internal/service/account/domain/port/ports.go
package port

import "context"

// Notifier queues the account lifecycle e-mails.
type Notifier interface {
	SendWelcome(ctx context.Context, email, name, userType string) error
	NotifyNewUser(ctx context.Context, name, email string) error
}

// PartnerDirectory resolves referral codes to partner ids.
type PartnerDirectory interface {
	// PartnerIDByCode returns "" when no partner owns code.
	PartnerIDByCode(ctx context.Context, code string) (string, error)
}
