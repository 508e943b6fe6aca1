// internal/service/referral/infrastructure/mapper.go
package infrastructure

import "github.com/klausterra/alpha-se-1/internal/service/referral/domain"

func toDomainPartner(m *PartnerModel) *domain.Partner {
	return &domain.Partner{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Code:        m.Code,
		Accumulated: m.Accumulated,
		Paid:        m.Paid,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainPartner(p *domain.Partner) *PartnerModel {
	return &PartnerModel{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Code:        p.Code,
		Accumulated: p.Accumulated,
		Paid:        p.Paid,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
