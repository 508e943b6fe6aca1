// internal/service/listing/domain/listing.go
package domain

import (
	"strings"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusRejected Status = "rejected"
)

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusActive:
		return "Ativo"
	case StatusExpired:
		return "Expirado"
	case StatusRejected:
		return "Rejeitado"
	}
	return string(s)
}

const (
	MaxImages = 5
	// VisitorListingDays is how long a visitor's listing stays up.
	VisitorListingDays = 30
	noWhatsApp         = "Não informado"
	visitorType        = "visitante"
)

// Listing is a classified ad. Owner fields are copied from the profile when
// the listing is created.
type Listing struct {
	ID          string
	Title       string
	Description string
	Category    string
	Subcategory string
	Price       float64
	Images      []string
	Status      Status
	Featured    bool

	OwnerEmail    string
	OwnerName     string
	OwnerNickname string
	OwnerWhatsApp string
	OwnerPhotoURL string
	OwnerType     string

	ExpiresOn *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner is the profile data copied onto a new listing.
type Owner struct {
	Email    string
	FullName string
	Nickname string
	Phone    string
	PhotoURL string
	UserType string
}

// Draft holds the editable fields of a listing.
type Draft struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	Price       float64
	PriceSet    bool
	Images      []string
}

// Validate applies the form rules in the order the user sees them.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" ||
		d.Category == "" || d.Subcategory == "" || !d.PriceSet {
		return invalid("", MsgRequiredFields)
	}
	if len(d.Images) == 0 {
		return invalid("imagens", MsgImageRequired)
	}
	if len(d.Images) > MaxImages {
		return invalid("imagens", MsgTooManyImages)
	}
	if !BelongsTo(d.Category, d.Subcategory) {
		return invalid("subcategoria", MsgBadSubcategory)
	}
	if d.Price < 0 {
		return invalid("preco", MsgBadPrice)
	}
	return nil
}

// NewListing builds a pending listing for owner. Visitors' listings expire
// VisitorListingDays after today.
func NewListing(id string, owner Owner, d Draft, now time.Time) (*Listing, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(owner.FullName) == "" {
		return nil, invalid("full_name", MsgOwnerNameRequired)
	}
	userType := owner.UserType
	if userType == "" {
		userType = visitorType
	}
	l := &Listing{
		ID:            id,
		Status:        StatusPending,
		OwnerEmail:    strings.ToLower(owner.Email),
		OwnerName:     owner.FullName,
		OwnerNickname: owner.Nickname,
		OwnerWhatsApp: owner.Phone,
		OwnerPhotoURL: owner.PhotoURL,
		OwnerType:     userType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if l.OwnerNickname == "" {
		l.OwnerNickname = strings.Fields(owner.FullName)[0]
	}
	if l.OwnerWhatsApp == "" {
		l.OwnerWhatsApp = noWhatsApp
	}
	if userType == visitorType {
		exp := clock.Date(clock.AddDays(now, VisitorListingDays))
		l.ExpiresOn = &exp
	}
	l.apply(d)
	return l, nil
}

// Edit replaces the editable fields; status and ownership are kept.
func (l *Listing) Edit(d Draft, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	l.apply(d)
	l.UpdatedAt = now
	return nil
}

func (l *Listing) apply(d Draft) {
	l.Title = strings.TrimSpace(d.Title)
	l.Description = strings.TrimSpace(d.Description)
	l.Category = d.Category
	l.Subcategory = d.Subcategory
	l.Price = d.Price
	l.Images = append([]string(nil), d.Images...)
}

func (l *Listing) OwnedBy(email string) bool {
	return email != "" && strings.EqualFold(l.OwnerEmail, email)
}

// IsPastExpiry is true once the expiry day is over in loc.
func (l *Listing) IsPastExpiry(now time.Time) bool {
	if l.ExpiresOn == nil {
		return false
	}
	return clock.DayIn(*l.ExpiresOn, now.Location()).Before(clock.StartOfDay(now))
}

func (l *Listing) Approve()           { l.Status = StatusActive }
func (l *Listing) Reject()            { l.Status = StatusRejected }
func (l *Listing) SetFeatured(v bool) { l.Featured = v }

func (l *Listing) CoverImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}
