// internal/service/notification/infrastructure/mapper.go
package infrastructure

import "github.com/klausterra/alpha-se-1/internal/service/notification/domain"

func toDomainTemplate(m *TemplateModel) *domain.EmailTemplate {
	return &domain.EmailTemplate{
		ID:          m.ID,
		Name:        m.Name,
		Subject:     m.Subject,
		Description: m.Description,
		HTMLBody:    m.HTMLBody,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainTemplate(t *domain.EmailTemplate) *TemplateModel {
	return &TemplateModel{
		ID:          t.ID,
		Name:        t.Name,
		Subject:     t.Subject,
		Description: t.Description,
		HTMLBody:    t.HTMLBody,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
