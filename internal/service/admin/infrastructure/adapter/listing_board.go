// internal/service/admin/infrastructure/adapter/listing_board.go
package adapter

import (
	"context"

	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
	listingdomain "github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

// ListingBoard moderates listings through the listing service.
type ListingBoard struct {
	svc *listingapp.ListingService
}

func NewListingBoard(svc *listingapp.ListingService) *ListingBoard {
	return &ListingBoard{svc: svc}
}

func (b *ListingBoard) modify(ctx context.Context, id string, fn func(l *listingdomain.Listing)) error {
	_, err := b.svc.ModifyListing(ctx, id, func(l *listingdomain.Listing) error {
		fn(l)
		return nil
	})
	return err
}

func (b *ListingBoard) Approve(ctx context.Context, id string) error {
	return b.modify(ctx, id, (*listingdomain.Listing).Approve)
}

func (b *ListingBoard) Reject(ctx context.Context, id string) error {
	return b.modify(ctx, id, (*listingdomain.Listing).Reject)
}

func (b *ListingBoard) SetFeatured(ctx context.Context, id string, featured bool) error {
	return b.modify(ctx, id, func(l *listingdomain.Listing) { l.SetFeatured(featured) })
}

func (b *ListingBoard) Delete(ctx context.Context, id string) error {
	return b.svc.RemoveListing(ctx, id)
}

func (b *ListingBoard) All(ctx context.Context) ([]listingapp.ListingDTO, error) {
	listings, err := b.svc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return listingapp.ToListingDTOs(listings), nil
}

func (b *ListingBoard) Counts(ctx context.Context) (int64, int64, error) {
	return b.svc.Counts(ctx)
}
