// internal/service/notification/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

type GormTemplateRepository struct {
	db *gorm.DB
}

func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) FindByID(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormTemplateRepository) FindByName(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	return r.first(r.db.WithContext(ctx).Where("nome = ?", name))
}

func (r *GormTemplateRepository) first(q *gorm.DB) (*domain.EmailTemplate, error) {
	var m TemplateModel
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, errors.Wrap(err, "load template")
	}
	return toDomainTemplate(&m), nil
}

func (r *GormTemplateRepository) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	var models []TemplateModel
	if err := r.db.WithContext(ctx).Order("nome").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list templates")
	}
	out := make([]*domain.EmailTemplate, len(models))
	for i := range models {
		out[i] = toDomainTemplate(&models[i])
	}
	return out, nil
}

func (r *GormTemplateRepository) Create(ctx context.Context, t *domain.EmailTemplate) error {
	err := r.db.WithContext(ctx).Create(fromDomainTemplate(t)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrTemplateExists
	}
	return errors.Wrap(err, "create template")
}

func (r *GormTemplateRepository) Save(ctx context.Context, t *domain.EmailTemplate) error {
	res := r.db.WithContext(ctx).Model(&TemplateModel{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"nome":          t.Name,
		"assunto":       t.Subject,
		"descricao":     t.Description,
		"conteudo_html": t.HTMLBody,
		"ativo":         t.Active,
		"updated_at":    t.UpdatedAt,
	})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return domain.ErrTemplateExists
	}
	if res.Error != nil {
		return errors.Wrap(res.Error, "save template")
	}
	if res.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *GormTemplateRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TemplateModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete template")
	}
	if res.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}
