// internal/service/listing/application/dto.go
package application

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

// ListingDTO is the JSON shape of a listing.
type ListingDTO struct {
	ID               string    `json:"id"`
	Title            string    `json:"titulo"`
	Description      string    `json:"descricao"`
	Category         string    `json:"categoria"`
	CategoryLabel    string    `json:"categoria_label"`
	Subcategory      string    `json:"subcategoria"`
	SubcategoryLabel string    `json:"subcategoria_label"`
	Price            float64   `json:"preco"`
	PriceFormatted   string    `json:"preco_formatado"`
	Images           []string  `json:"imagens"`
	Status           string    `json:"status"`
	StatusLabel      string    `json:"status_label"`
	Featured         bool      `json:"destacado"`
	OwnerEmail       string    `json:"created_by"`
	OwnerName        string    `json:"nome_anunciante"`
	OwnerNickname    string    `json:"nickname"`
	OwnerWhatsApp    string    `json:"whatsapp"`
	OwnerPhotoURL    string    `json:"anunciante_foto_url,omitempty"`
	OwnerType        string    `json:"user_type"`
	ExpiresOn        string    `json:"data_expiracao,omitempty"`
	CreatedDate      time.Time `json:"created_date"`
}

func ToListingDTO(l *domain.Listing) ListingDTO {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	dto := ListingDTO{
		ID:               l.ID,
		Title:            l.Title,
		Description:      l.Description,
		Category:         l.Category,
		CategoryLabel:    domain.CategoryLabel(l.Category),
		Subcategory:      l.Subcategory,
		SubcategoryLabel: domain.SubcategoryLabel(l.Subcategory),
		Price:            l.Price,
		PriceFormatted:   domain.FormatAmount(l.Price),
		Images:           images,
		Status:           string(l.Status),
		StatusLabel:      l.Status.Label(),
		Featured:         l.Featured,
		OwnerEmail:       l.OwnerEmail,
		OwnerName:        l.OwnerName,
		OwnerNickname:    l.OwnerNickname,
		OwnerWhatsApp:    l.OwnerWhatsApp,
		OwnerPhotoURL:    l.OwnerPhotoURL,
		OwnerType:        l.OwnerType,
		CreatedDate:      l.CreatedAt,
	}
	if l.ExpiresOn != nil {
		dto.ExpiresOn = l.ExpiresOn.Format("2006-01-02")
	}
	return dto
}

func ToListingDTOs(ls []*domain.Listing) []ListingDTO {
	out := make([]ListingDTO, len(ls))
	for i, l := range ls {
		out[i] = ToListingDTO(l)
	}
	return out
}

// PriceInput accepts the price either as a JSON number or as the pt-BR
// string the form shows ("1.234,56").
type PriceInput struct {
	Value float64
	Set   bool
}

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = PriceInput{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceInput{Value: domain.ParsePriceToNumber(s), Set: s != ""}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = PriceInput{Value: f, Set: true}
	return nil
}

// ListingRequest is the body of create and edit.
type ListingRequest struct {
	Title       string     `json:"titulo"`
	Description string     `json:"descricao"`
	Category    string     `json:"categoria"`
	Subcategory string     `json:"subcategoria"`
	Price       PriceInput `json:"preco"`
	Images      []string   `json:"imagens"`
}

func (r ListingRequest) toDraft() domain.Draft {
	return domain.Draft{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Price:       r.Price.Value,
		PriceSet:    r.Price.Set,
		Images:      r.Images,
	}
}
