// internal/service/account/domain/repository.go
package domain

import (
	"context"
	"time"
)

// UserFilter narrows the admin user list. Empty fields do not filter.
type UserFilter struct {
	ApprovalStatus ApprovalStatus
	UserType       UserType
	ReferrerID     string
	Search         string
}

// ReferralStats counts users brought in by one partner.
type ReferralStats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	LastWeek  int64 `json:"last_7_days"`
	ThisMonth int64 `json:"this_month"`
	Paid      int64 `json:"paid"`
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	// MarkFlag sets one of the once-only e-mail flags and reports whether
	// this call flipped it (false if it was already set).
	MarkFlag(ctx context.Context, id string, flag EmailFlag) (bool, error)
	// ExpireVisitors flips every approved visitor whose expiry day is before
	// the given day and returns how many rows changed.
	ExpireVisitors(ctx context.Context, before time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByApproval(ctx context.Context, status ApprovalStatus) (int64, error)
	ReferralStats(ctx context.Context, referrerID string, now time.Time) (ReferralStats, error)
}

type EmailFlag string

const (
	FlagWelcomeEmail      EmailFlag = "welcome_email_sent"
	FlagAdminNotification EmailFlag = "new_user_notification_sent"
)
