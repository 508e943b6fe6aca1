// internal/service/admin/domain/port/ports.go
package port

import (
	"context"

	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
)

// UserBoard is the user side of the moderation console.
type UserBoard interface {
	ApproveResident(ctx context.Context, id string) error
	ApproveVisitor(ctx context.Context, id string, days int) error
	Reject(ctx context.Context, id string) error
	All(ctx context.Context) ([]accountapp.UserDTO, error)
	Counts(ctx context.Context) (total, pending int64, err error)
}

// ListingBoard is the listing side of the moderation console.
type ListingBoard interface {
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]listingapp.ListingDTO, error)
	Counts(ctx context.Context) (total, active int64, err error)
}
