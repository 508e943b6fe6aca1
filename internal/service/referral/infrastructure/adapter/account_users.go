// internal/service/referral/infrastructure/adapter/account_users.go
package adapter

import (
	"context"

	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	accountdomain "github.com/klausterra/alpha-se-1/internal/service/account/domain"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain/port"
)

// AccountUsers reads referred sign-ups through the account service.
type AccountUsers struct {
	accounts *accountapp.AccountService
}

func NewAccountUsers(accounts *accountapp.AccountService) *AccountUsers {
	return &AccountUsers{accounts: accounts}
}

func (a *AccountUsers) Referred(ctx context.Context, partnerID string) ([]port.ReferredUser, error) {
	users, err := a.accounts.ListUsers(ctx, accountdomain.UserFilter{ReferrerID: partnerID})
	if err != nil {
		return nil, err
	}
	out := make([]port.ReferredUser, len(users))
	for i, u := range users {
		out[i] = port.ReferredUser{
			Name:          u.FullName,
			Email:         u.Email,
			UserType:      string(u.UserType),
			PaymentStatus: string(u.PaymentStatus),
			CreatedAt:     u.CreatedAt,
		}
	}
	return out, nil
}

func (a *AccountUsers) Stats(ctx context.Context, partnerID string) (port.ReferralStats, error) {
	s, err := a.accounts.ReferralStats(ctx, partnerID)
	if err != nil {
		return port.ReferralStats{}, err
	}
	return port.ReferralStats(s), nil
}
