// internal/service/referral/application/dto.go
package application

import (
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain/port"
)

type PartnerDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Email       string    `json:"email"`
	Code        string    `json:"codigo_indicacao"`
	Link        string    `json:"link_personalizado"`
	Accumulated float64   `json:"total_comissao_acumulada"`
	Paid        float64   `json:"total_comissao_paga"`
	Pending     float64   `json:"comissao_pendente"`
	CreatedAt   time.Time `json:"created_date"`
}

func ToPartnerDTO(p *domain.Partner, publicBaseURL string) PartnerDTO {
	return PartnerDTO{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Code:        p.Code,
		Link:        p.Link(publicBaseURL),
		Accumulated: p.Accumulated,
		Paid:        p.Paid,
		Pending:     p.Pending(),
		CreatedAt:   p.CreatedAt,
	}
}

// PartnerRequest creates or edits a partner. A blank code is generated.
type PartnerRequest struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Code  string `json:"codigo_indicacao"`
}

type PayoutRequest struct {
	Amount float64 `json:"valor"`
}

// PartnerSummary is one row of the admin partner table.
type PartnerSummary struct {
	PartnerDTO
	Stats port.ReferralStats `json:"estatisticas"`
}

// Dashboard is what a partner sees about their own referrals.
type Dashboard struct {
	Partner          PartnerDTO          `json:"influencer"`
	Stats            port.ReferralStats  `json:"estatisticas"`
	Referred         []port.ReferredUser `json:"indicados"`
	CommissionPerFee float64             `json:"comissao_por_pagamento"`
}
