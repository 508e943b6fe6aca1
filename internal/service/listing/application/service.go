// internal/service/listing/application/service.go
package application

import (
	"context"
	"io"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
	"github.com/klausterra/alpha-se-1/internal/service/listing/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

// FeaturedLimit is how many listings the home page shows.
const FeaturedLimit = 6

type ListingService struct {
	repo   domain.ListingRepository
	policy port.VisibilityPolicy
	files  port.FileStore
	clock  clock.Clock
	tracer trace.Tracer
}

func NewListingService(repo domain.ListingRepository, policy port.VisibilityPolicy, files port.FileStore,
	clk clock.Clock, tracer trace.Tracer) *ListingService {
	return &ListingService{repo: repo, policy: policy, files: files, clock: clk, tracer: tracer}
}

// Create publishes a listing for the signed-in user. It starts pending.
func (s *ListingService) Create(ctx context.Context, p *session.Principal, req ListingRequest) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateListing")
	defer span.End()

	owner := domain.Owner{
		Email:    p.Email,
		FullName: p.FullName,
		Nickname: p.Nickname,
		Phone:    p.Phone,
		PhotoURL: p.Picture,
		UserType: p.UserType,
	}
	l, err := domain.NewListing(uuid.NewString(), owner, req.toDraft(), s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, tracing.Fail(span, err)
	}
	metrics.ListingsCreated.Inc()
	span.SetAttributes(attribute.String("listing.id", l.ID), attribute.String("listing.category", l.Category))
	logger.Ctx(ctx).Info().Str("listing_id", l.ID).Str("owner", l.OwnerEmail).Msg("📢 Listing created")
	return l, nil
}

// Update edits a listing as its owner or an administrator.
func (s *ListingService) Update(ctx context.Context, p *session.Principal, id string, req ListingRequest) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateListing")
	defer span.End()

	l, err := s.editable(ctx, p, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if err := l.Edit(req.toDraft(), s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, p *session.Principal, id string) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteListing")
	defer span.End()

	if _, err := s.editable(ctx, p, id); err != nil {
		return tracing.Fail(span, err)
	}
	return tracing.Fail(span, s.repo.Delete(ctx, id))
}

func (s *ListingService) editable(ctx context.Context, p *session.Principal, id string) (*domain.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(p.Email) && !p.IsAdmin() {
		return nil, domain.ErrNotOwner
	}
	return l, nil
}

// Get returns a listing for a detail view. Owners and administrators see
// their listings in any state; everyone else only sees visible ones. p may be nil.
func (s *ListingService) Get(ctx context.Context, p *session.Principal, id string) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetListing")
	defer span.End()

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if p != nil && (p.IsAdmin() || l.OwnedBy(p.Email)) {
		return l, nil
	}
	ok, err := s.policy.Visible(l, s.clock.Now())
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return l, nil
}

// Browse lists the visible listings matching filter, newest first.
func (s *ListingService) Browse(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.BrowseListings")
	defer span.End()

	visible, err := s.visible(ctx)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	out := filter.Apply(visible)
	span.SetAttributes(attribute.Int("listings.count", len(out)))
	return out, nil
}

// Featured is the home page selection: featured listings first, then the
// newest ones.
func (s *ListingService) Featured(ctx context.Context, limit int) ([]*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.FeaturedListings")
	defer span.End()

	visible, err := s.visible(ctx)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Featured && !visible[j].Featured
	})
	if limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	return visible, nil
}

func (s *ListingService) visible(ctx context.Context) ([]*domain.Listing, error) {
	candidates, err := s.repo.ListByStatus(ctx, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	today := s.clock.Now()
	out := candidates[:0]
	for _, l := range candidates {
		ok, err := s.policy.Visible(l, today)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *ListingService) ListMine(ctx context.Context, p *session.Principal) ([]*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListMyListings")
	defer span.End()
	ls, err := s.repo.ListByOwner(ctx, p.Email)
	return ls, tracing.Fail(span, err)
}

// Upload stores an image or document on the platform and returns its URL.
func (s *ListingService) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	ctx, span := s.tracer.Start(ctx, "app.UploadFile")
	defer span.End()
	url, err := s.files.UploadFile(ctx, filename, file)
	return url, tracing.Fail(span, err)
}

// --- administration ---

func (s *ListingService) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.ListAll(ctx)
}

// ModifyListing loads a listing, applies mutate and saves it.
func (s *ListingService) ModifyListing(ctx context.Context, id string, mutate func(l *domain.Listing) error) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.ModifyListing")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id))

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if err := mutate(l); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return l, nil
}

func (s *ListingService) RemoveListing(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ExpireListings is run by the sweeper.
func (s *ListingService) ExpireListings(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "app.ExpireListings")
	defer span.End()

	n, err := s.repo.ExpireListings(ctx, s.clock.Now())
	if err != nil {
		return 0, tracing.Fail(span, err)
	}
	metrics.ListingsExpired.Add(float64(n))
	span.SetAttributes(attribute.Int64("listings.expired", n))
	return n, nil
}

func (s *ListingService) Counts(ctx context.Context) (total, active int64, err error) {
	if total, err = s.repo.CountAll(ctx); err != nil {
		return 0, 0, err
	}
	active, err = s.repo.CountByStatus(ctx, domain.StatusActive)
	return total, active, err
}
