// internal/service/account/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
)

// GormUserRepository is the GORM implementation of domain.UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "load user")
	}
	return ToDomainUser(&model), nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(FromDomainUser(user)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailTaken
	}
	return errors.Wrap(err, "create user")
}

// Save writes every mutable column. The once-only e-mail flags are left to
// MarkFlag so a stale copy cannot reset them.
func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	m := FromDomainUser(user)
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", user.ID).
		Select("*").Omit("id", "email", "created_at", "welcome_email_sent", "new_user_notification_sent").
		Updates(m)
	if res.Error != nil {
		return errors.Wrap(res.Error, "save user")
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{})
	if filter.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.UserType != "" {
		q = q.Where("user_type = ?", filter.UserType)
	}
	if filter.ReferrerID != "" {
		q = q.Where("influencer_id = ?", filter.ReferrerID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(nickname) LIKE ?", like, like, like)
	}
	var models []*UserModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	users := make([]*domain.User, len(models))
	for i, m := range models {
		users[i] = ToDomainUser(m)
	}
	return users, nil
}

// MarkFlag is a compare-and-set: only the request that flips false to true
// sees RowsAffected == 1 and sends the e-mail.
func (r *GormUserRepository) MarkFlag(ctx context.Context, id string, flag domain.EmailFlag) (bool, error) {
	col := string(flag)
	switch flag {
	case domain.FlagWelcomeEmail, domain.FlagAdminNotification:
	default:
		return false, errors.Errorf("unknown flag %q", flag)
	}
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ? AND "+col+" = ?", id, false).
		Update(col, true)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "mark flag")
	}
	return res.RowsAffected == 1, nil
}

// UnmarkFlag clears a flag after the guarded send failed so the next sign-in retries.
func (r *GormUserRepository) UnmarkFlag(ctx context.Context, id string, flag domain.EmailFlag) error {
	switch flag {
	case domain.FlagWelcomeEmail, domain.FlagAdminNotification:
	default:
		return errors.Errorf("unknown flag %q", flag)
	}
	return r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Update(string(flag), false).Error
}

func (r *GormUserRepository) ExpireVisitors(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("user_type = ? AND approval_status = ? AND expires_on IS NOT NULL AND expires_on < ?",
			domain.UserTypeVisitor, domain.ApprovalApproved, clock.Date(today)).
		Updates(map[string]interface{}{
			"approval_status": domain.ApprovalRejected,
			"payment_status":  domain.PaymentExpired,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "expire visitors")
	}
	return res.RowsAffected, nil
}

func (r *GormUserRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&n).Error
	return n, errors.Wrap(err, "count users")
}

func (r *GormUserRepository) CountByApproval(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Where("approval_status = ?", status).Count(&n).Error
	return n, errors.Wrap(err, "count users by approval")
}

// ReferralStats counts the users a partner referred, bucketed by sign-up date.
func (r *GormUserRepository) ReferralStats(ctx context.Context, referrerID string, now time.Time) (domain.ReferralStats, error) {
	var stats domain.ReferralStats
	today := clock.StartOfDay(now)
	weekAgo := today.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&UserModel{}).Where("influencer_id = ?", referrerID)
	}
	counts := []struct {
		dst   *int64
		scope func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(db *gorm.DB) *gorm.DB { return db }},
		{&stats.Today, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", today) }},
		{&stats.LastWeek, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", weekAgo) }},
		{&stats.ThisMonth, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", monthStart) }},
		{&stats.Paid, func(db *gorm.DB) *gorm.DB { return db.Where("payment_status = ?", domain.PaymentPaid) }},
	}
	for _, c := range counts {
		if err := c.scope(base()).Count(c.dst).Error; err != nil {
			return domain.ReferralStats{}, errors.Wrap(err, "referral stats")
		}
	}
	return stats, nil
}
