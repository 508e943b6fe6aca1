// internal/service/listing/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, errors.Wrap(err, "load listing")
	}
	return ToDomainListing(&model), nil
}

func (r *GormListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(FromDomainListing(l)).Error, "create listing")
}

func (r *GormListingRepository) Save(ctx context.Context, l *domain.Listing) error {
	l.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&ListingModel{}).Where("id = ?", l.ID).
		Select("*").Omit("id", "created_by", "created_at").
		Updates(FromDomainListing(l))
	if res.Error != nil {
		return errors.Wrap(res.Error, "save listing")
	}
	if res.RowsAffected == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *GormListingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ListingModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete listing")
	}
	if res.RowsAffected == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *GormListingRepository) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *GormListingRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Listing, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (r *GormListingRepository) ListByOwner(ctx context.Context, email string) ([]*domain.Listing, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("created_by = ?", email))
}

func (r *GormListingRepository) list(_ context.Context, q *gorm.DB) ([]*domain.Listing, error) {
	var models []ListingModel
	if err := q.Order("created_at DESC").Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list listings")
	}
	return toDomainListings(models), nil
}

func (r *GormListingRepository) ExpireListings(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&ListingModel{}).
		Where("status IN ?", []string{string(domain.StatusActive), string(domain.StatusPending)}).
		Where("data_expiracao IS NOT NULL AND data_expiracao < ?", clock.Date(today)).
		Updates(map[string]interface{}{"status": string(domain.StatusExpired), "updated_at": time.Now()})
	return res.RowsAffected, errors.Wrap(res.Error, "expire listings")
}

func (r *GormListingRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ListingModel{}).Count(&n).Error
	return n, errors.Wrap(err, "count listings")
}

func (r *GormListingRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ListingModel{}).Where("status = ?", string(status)).Count(&n).Error
	return n, errors.Wrap(err, "count listings")
}
