// internal/service/listing/infrastructure/mapper.go
package infrastructure

import "github.com/klausterra/alpha-se-1/internal/service/listing/domain"

func ToDomainListing(m *ListingModel) *domain.Listing {
	if m == nil {
		return nil
	}
	return &domain.Listing{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Category:      m.Category,
		Subcategory:   m.Subcategory,
		Price:         m.Price,
		Images:        m.Images,
		Status:        domain.Status(m.Status),
		Featured:      m.Featured,
		OwnerEmail:    m.OwnerEmail,
		OwnerName:     m.OwnerName,
		OwnerNickname: m.OwnerNickname,
		OwnerWhatsApp: m.OwnerWhatsApp,
		OwnerPhotoURL: m.OwnerPhotoURL,
		OwnerType:     m.OwnerType,
		ExpiresOn:     m.ExpiresOn,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromDomainListing(l *domain.Listing) *ListingModel {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return &ListingModel{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Category:      l.Category,
		Subcategory:   l.Subcategory,
		Price:         l.Price,
		Images:        images,
		Status:        string(l.Status),
		Featured:      l.Featured,
		OwnerEmail:    l.OwnerEmail,
		OwnerName:     l.OwnerName,
		OwnerNickname: l.OwnerNickname,
		OwnerWhatsApp: l.OwnerWhatsApp,
		OwnerPhotoURL: l.OwnerPhotoURL,
		OwnerType:     l.OwnerType,
		ExpiresOn:     l.ExpiresOn,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toDomainListings(models []ListingModel) []*domain.Listing {
	out := make([]*domain.Listing, len(models))
	for i := range models {
		out[i] = ToDomainListing(&models[i])
	}
	return out
}
