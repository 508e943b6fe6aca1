// internal/service/listing/domain/repository.go
package domain

import (
	"context"
	"time"
)

// ListingRepository stores listings. List methods return newest first.
type ListingRepository interface {
	FindByID(ctx context.Context, id string) (*Listing, error)
	Create(ctx context.Context, l *Listing) error
	Save(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error

	ListAll(ctx context.Context) ([]*Listing, error)
	ListByStatus(ctx context.Context, status Status) ([]*Listing, error)
	ListByOwner(ctx context.Context, email string) ([]*Listing, error)

	// ExpireListings moves listings whose expiry day is before today to expired.
	ExpireListings(ctx context.Context, today time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
