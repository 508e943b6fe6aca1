// internal/service/chat/infrastructure/adapter/listing_lookup.go
package adapter

import (
	"context"

	"github.com/pkg/errors"

	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain/port"
	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
	listingdomain "github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

// ListingLookup reads listings through the listing service, so the same
// visibility policy applies to starting a conversation.
type ListingLookup struct {
	listings *listingapp.ListingService
}

func NewListingLookup(listings *listingapp.ListingService) *ListingLookup {
	return &ListingLookup{listings: listings}
}

func (a *ListingLookup) ListingForChat(ctx context.Context, viewer *session.Principal, listingID string) (port.ListingRef, error) {
	l, err := a.listings.Get(ctx, viewer, listingID)
	if errors.Is(err, listingdomain.ErrListingNotFound) {
		return port.ListingRef{}, domain.ErrListingUnavailable
	}
	if err != nil {
		return port.ListingRef{}, err
	}
	return port.ListingRef{
		ID:            l.ID,
		Title:         l.Title,
		OwnerEmail:    l.OwnerEmail,
		OwnerName:     l.OwnerName,
		OwnerPhotoURL: l.OwnerPhotoURL,
	}, nil
}
