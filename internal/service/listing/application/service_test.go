package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure/rule"
)

type memFiles struct{ names []string }

func (m *memFiles) UploadFile(_ context.Context, filename string, file io.Reader) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	m.names = append(m.names, filename)
	return "https://files/" + filename, nil
}

func newService(t *testing.T, now time.Time) (*ListingService, *infrastructure.GormListingRepository) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := infrastructure.Migrate(db); err != nil {
		t.Fatal(err)
	}
	policy, err := rule.NewCELPolicy(bootstrap.DefaultConfig().App.ListingVisibility)
	if err != nil {
		t.Fatal(err)
	}
	repo := infrastructure.NewGormListingRepository(db)
	return NewListingService(repo, policy, &memFiles{}, clock.Fixed{T: now}, noop.NewTracerProvider().Tracer("test")), repo
}

var (
	ana   = &session.Principal{UserID: "u1", Email: "ana@x.com", FullName: "Ana Souza", UserType: "visitante"}
	bia   = &session.Principal{UserID: "u2", Email: "bia@x.com", FullName: "Bia Lima", UserType: "morador"}
	admin = &session.Principal{UserID: "u3", Email: "adm@x.com", FullName: "Admin", UserType: "administrador"}
)

func request(title string) ListingRequest {
	return ListingRequest{
		Title: title, Description: "desc", Category: "veiculos", Subcategory: "carros",
		Price: PriceInput{Value: 1500, Set: true}, Images: []string{"https://img/1.jpg"},
	}
}

func TestCreateStartsPendingAndHidden(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newService(t, now)
	ctx := context.Background()

	l, err := svc.Create(ctx, ana, request("Gol"))
	if err != nil {
		t.Fatal(err)
	}
	if l.Status != domain.StatusPending || l.ExpiresOn == nil {
		t.Fatalf("created = %+v", l)
	}
	if _, err := svc.Get(ctx, bia, l.ID); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("pending listing visible to others: %v", err)
	}
	if _, err := svc.Get(ctx, ana, l.ID); err != nil {
		t.Fatalf("owner cannot see own listing: %v", err)
	}
	if _, err := svc.Get(ctx, admin, l.ID); err != nil {
		t.Fatalf("admin cannot see listing: %v", err)
	}
}

func TestVisibilityIsUniformAcrossReadPaths(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newService(t, now)
	ctx := context.Background()
	yesterday := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	fresh := &domain.Listing{ID: "fresh", Title: "Fresh", Status: domain.StatusActive, OwnerEmail: "bia@x.com", CreatedAt: now}
	stale := &domain.Listing{ID: "stale", Title: "Stale", Status: domain.StatusActive, Featured: true,
		OwnerEmail: "ana@x.com", ExpiresOn: &yesterday, CreatedAt: now.Add(time.Minute)}
	for _, l := range []*domain.Listing{fresh, stale} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	browse, _ := svc.Browse(ctx, domain.Filter{})
	featured, _ := svc.Featured(ctx, FeaturedLimit)
	if len(browse) != 1 || browse[0].ID != "fresh" || len(featured) != 1 || featured[0].ID != "fresh" {
		t.Fatalf("browse=%v featured=%v", browse, featured)
	}
	if _, err := svc.Get(ctx, nil, "stale"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("anonymous detail of stale listing: %v", err)
	}
	if _, err := svc.Get(ctx, ana, "stale"); err != nil {
		t.Fatalf("owner detail of stale listing: %v", err)
	}

	n, err := svc.ExpireListings(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ExpireListings = %d, %v", n, err)
	}
}

func TestFeaturedFirst(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newService(t, now)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		l := &domain.Listing{ID: id, Status: domain.StatusActive, Featured: id == "a", CreatedAt: now.Add(time.Duration(i) * time.Minute)}
		_ = repo.Create(ctx, l)
	}
	got, _ := svc.Featured(ctx, 2)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("featured = %v, %v", got[0].ID, got[1].ID)
	}
}

func TestOnlyOwnerOrAdminEdits(t *testing.T) {
	svc, _ := newService(t, time.Now().UTC())
	ctx := context.Background()
	l, err := svc.Create(ctx, ana, request("Gol"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(ctx, bia, l.ID, request("Roubado")); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("stranger update: %v", err)
	}
	updated, err := svc.Update(ctx, ana, l.ID, request("Gol 2012"))
	if err != nil || updated.Title != "Gol 2012" {
		t.Fatalf("owner update: %v %v", updated, err)
	}
	if err := svc.Delete(ctx, bia, l.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("stranger delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, l.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestUpload(t *testing.T) {
	svc, _ := newService(t, time.Now())
	url, err := svc.Upload(context.Background(), "foto.jpg", strings.NewReader("jpeg"))
	if err != nil || url != "https://files/foto.jpg" {
		t.Fatalf("Upload = %q, %v", url, err)
	}
}

func TestPriceInputAcceptsNumberOrText(t *testing.T) {
	tests := []struct {
		in   string
		want PriceInput
	}{
		{`1500.5`, PriceInput{Value: 1500.5, Set: true}},
		{`"1.500,50"`, PriceInput{Value: 1500.5, Set: true}},
		{`""`, PriceInput{}},
		{`null`, PriceInput{}},
	}
	for _, tt := range tests {
		var p PriceInput
		if err := p.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Fatal(err)
		}
		if p != tt.want {
			t.Errorf("%s -> %+v, want %+v", tt.in, p, tt.want)
		}
	}
}
