// internal/service/payment/infrastructure/adapter/account_payers.go
package adapter

import (
	"context"

	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain/port"
)

// AccountPayers credits payments to accounts through the account service.
type AccountPayers struct {
	accounts *accountapp.AccountService
}

func NewAccountPayers(accounts *accountapp.AccountService) *AccountPayers {
	return &AccountPayers{accounts: accounts}
}

func (a *AccountPayers) MarkPaid(ctx context.Context, email string) (port.Payer, error) {
	u, err := a.accounts.MarkPaid(ctx, email)
	if err != nil {
		return port.Payer{}, err
	}
	return port.Payer{UserID: u.ID, Email: u.Email, ReferrerID: u.ReferrerID}, nil
}
