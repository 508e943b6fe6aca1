// internal/service/referral/domain/repository.go
package domain

import "context"

type PartnerRepository interface {
	FindByID(ctx context.Context, id string) (*Partner, error)
	FindByCode(ctx context.Context, code string) (*Partner, error)
	FindByEmail(ctx context.Context, email string) (*Partner, error)
	List(ctx context.Context) ([]*Partner, error)
	// Create and Save return ErrCodeTaken when the code belongs to another partner.
	Create(ctx context.Context, p *Partner) error
	Save(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, id string) error

	// AccrueCommission records paymentID and adds amount to the partner's
	// accumulated commission in one transaction. It returns ErrAlreadyAccrued
	// when paymentID was recorded before.
	AccrueCommission(ctx context.Context, paymentID, partnerID string, amount float64) error
	// AddPayout adds amount to the paid counter.
	AddPayout(ctx context.Context, partnerID string, amount float64) error
}
