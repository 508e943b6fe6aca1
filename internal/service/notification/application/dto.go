// internal/service/notification/application/dto.go
package application

import (
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

type TemplateDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Subject     string    `json:"assunto"`
	Description string    `json:"descricao"`
	HTMLBody    string    `json:"conteudo_html"`
	Active      bool      `json:"ativo"`
	CreatedAt   time.Time `json:"created_date"`
	UpdatedAt   time.Time `json:"updated_date"`
}

func ToTemplateDTO(t *domain.EmailTemplate) TemplateDTO {
	return TemplateDTO{
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

func ToTemplateDTOs(ts []*domain.EmailTemplate) []TemplateDTO {
	out := make([]TemplateDTO, len(ts))
	for i, t := range ts {
		out[i] = ToTemplateDTO(t)
	}
	return out
}

// TemplateRequest creates or replaces a template. Active defaults to true
// on create.
type TemplateRequest struct {
	Name        string `json:"nome"`
	Subject     string `json:"assunto"`
	Description string `json:"descricao"`
	HTMLBody    string `json:"conteudo_html"`
	Active      *bool  `json:"ativo"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// PreviewDTO is a template rendered with sample values.
type PreviewDTO struct {
	Subject  string `json:"assunto"`
	HTMLBody string `json:"conteudo_html"`
}
