// internal/service/admin/infrastructure/adapter/account_board.go
package adapter

import (
	"context"
	"time"

	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	accountdomain "github.com/klausterra/alpha-se-1/internal/service/account/domain"
)

// AccountBoard moderates users through the account service.
type AccountBoard struct {
	svc *accountapp.AccountService
}

func NewAccountBoard(svc *accountapp.AccountService) *AccountBoard {
	return &AccountBoard{svc: svc}
}

func (b *AccountBoard) ApproveResident(ctx context.Context, id string) error {
	_, err := b.svc.ModifyUser(ctx, id, func(u *accountdomain.User, _ time.Time) error {
		u.ApproveResident()
		return nil
	})
	return err
}

func (b *AccountBoard) ApproveVisitor(ctx context.Context, id string, days int) error {
	_, err := b.svc.ModifyUser(ctx, id, func(u *accountdomain.User, now time.Time) error {
		u.ApproveVisitor(now, days)
		return nil
	})
	return err
}

func (b *AccountBoard) Reject(ctx context.Context, id string) error {
	_, err := b.svc.ModifyUser(ctx, id, func(u *accountdomain.User, _ time.Time) error {
		u.Reject()
		return nil
	})
	return err
}

func (b *AccountBoard) All(ctx context.Context) ([]accountapp.UserDTO, error) {
	users, err := b.svc.ListUsers(ctx, accountdomain.UserFilter{})
	if err != nil {
		return nil, err
	}
	return accountapp.ToUserDTOs(users), nil
}

func (b *AccountBoard) Counts(ctx context.Context) (int64, int64, error) {
	return b.svc.UserCounts(ctx)
}
