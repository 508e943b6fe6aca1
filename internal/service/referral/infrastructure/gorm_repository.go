// internal/service/referral/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
)

type GormPartnerRepository struct {
	db *gorm.DB
}

func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

func (r *GormPartnerRepository) FindByID(ctx context.Context, id string) (*domain.Partner, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormPartnerRepository) FindByCode(ctx context.Context, code string) (*domain.Partner, error) {
	return r.first(r.db.WithContext(ctx).Where("codigo_indicacao = ?", domain.NormalizeCode(code)))
}

func (r *GormPartnerRepository) FindByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Order("created_at"))
}

func (r *GormPartnerRepository) first(q *gorm.DB) (*domain.Partner, error) {
	var m PartnerModel
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, errors.Wrap(err, "load partner")
	}
	return toDomainPartner(&m), nil
}

func (r *GormPartnerRepository) List(ctx context.Context) ([]*domain.Partner, error) {
	var models []PartnerModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list partners")
	}
	out := make([]*domain.Partner, len(models))
	for i := range models {
		out[i] = toDomainPartner(&models[i])
	}
	return out, nil
}

func (r *GormPartnerRepository) Create(ctx context.Context, p *domain.Partner) error {
	err := r.db.WithContext(ctx).Create(fromDomainPartner(p)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrCodeTaken
	}
	return errors.Wrap(err, "create partner")
}

// Save updates the profile fields. The commission counters only change
// through AccrueCommission and AddPayout.
func (r *GormPartnerRepository) Save(ctx context.Context, p *domain.Partner) error {
	res := r.db.WithContext(ctx).Model(&PartnerModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"nome":             p.Name,
		"email":            p.Email,
		"codigo_indicacao": p.Code,
		"updated_at":       p.UpdatedAt,
	})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return domain.ErrCodeTaken
	}
	if res.Error != nil {
		return errors.Wrap(res.Error, "save partner")
	}
	if res.RowsAffected == 0 {
		return domain.ErrPartnerNotFound
	}
	return nil
}

func (r *GormPartnerRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PartnerModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete partner")
	}
	if res.RowsAffected == 0 {
		return domain.ErrPartnerNotFound
	}
	return nil
}

func (r *GormPartnerRepository) AccrueCommission(ctx context.Context, paymentID, partnerID string, amount float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev := &CommissionEventModel{PaymentID: paymentID, PartnerID: partnerID, Amount: amount}
		if err := tx.Create(ev).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyAccrued
			}
			return errors.Wrap(err, "record commission event")
		}
		return r.increment(tx, partnerID, "total_comissao_acumulada", amount)
	})
}

func (r *GormPartnerRepository) AddPayout(ctx context.Context, partnerID string, amount float64) error {
	return r.increment(r.db.WithContext(ctx), partnerID, "total_comissao_paga", amount)
}

func (r *GormPartnerRepository) increment(tx *gorm.DB, partnerID, column string, amount float64) error {
	res := tx.Model(&PartnerModel{}).Where("id = ?", partnerID).
		Update(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "increment %s", column)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPartnerNotFound
	}
	return nil
}
