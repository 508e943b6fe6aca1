package adapter

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	accountdomain "github.com/klausterra/alpha-se-1/internal/service/account/domain"
	accountinfra "github.com/klausterra/alpha-se-1/internal/service/account/infrastructure"
	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
	listingdomain "github.com/klausterra/alpha-se-1/internal/service/listing/domain"
	listinginfra "github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure/rule"
)

type noPartners struct{}

func (noPartners) PartnerIDByCode(context.Context, string) (string, error) { return "", nil }

var now = time.Date(2025, 7, 10, 15, 0, 0, 0, time.UTC)

func TestAccountBoard(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := accountinfra.Migrate(db); err != nil {
		t.Fatal(err)
	}
	repo := accountinfra.NewGormUserRepository(db)
	svc := accountapp.NewAccountService(repo, nil, noPartners{}, clock.Fixed{T: now},
		noop.NewTracerProvider().Tracer("test"), accountapp.Options{})
	ctx := context.Background()
	for _, id := range []string{"u1", "u2"} {
		u := accountdomain.NewUser(id, id+"@x.com", "Nome "+id, "", now)
		if err := repo.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	board := NewAccountBoard(svc)

	if err := board.ApproveVisitor(ctx, "u1", 3); err != nil {
		t.Fatal(err)
	}
	u1, _ := repo.FindByID(ctx, "u1")
	if u1.ApprovalStatus != accountdomain.ApprovalApproved || u1.PaymentStatus != accountdomain.PaymentPaid ||
		u1.ExpiresOn == nil || u1.ExpiresOn.Format("2006-01-02") != "2025-07-13" {
		t.Fatalf("visitor approval = %+v", u1)
	}

	if err := board.ApproveResident(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	u1, _ = repo.FindByID(ctx, "u1")
	if u1.UserType != accountdomain.UserTypeResident || u1.ExpiresOn != nil {
		t.Fatalf("resident approval = %+v", u1)
	}

	if err := board.Reject(ctx, "u2"); err != nil {
		t.Fatal(err)
	}
	total, pending, err := board.Counts(ctx)
	if err != nil || total != 2 || pending != 0 {
		t.Fatalf("counts = %d/%d %v", total, pending, err)
	}
	all, _ := board.All(ctx)
	if len(all) != 2 {
		t.Fatalf("all = %d", len(all))
	}
}

func TestListingBoard(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := listinginfra.Migrate(db); err != nil {
		t.Fatal(err)
	}
	policy, err := rule.NewCELPolicy(bootstrap.DefaultConfig().App.ListingVisibility)
	if err != nil {
		t.Fatal(err)
	}
	repo := listinginfra.NewGormListingRepository(db)
	svc := listingapp.NewListingService(repo, policy, nil, clock.Fixed{T: now}, noop.NewTracerProvider().Tracer("test"))
	ctx := context.Background()
	owner := &session.Principal{UserID: "u1", Email: "ana@x.com", FullName: "Ana Souza", UserType: "morador"}
	l, err := svc.Create(ctx, owner, listingapp.ListingRequest{
		Title: "Bicicleta", Description: "Aro 29", Category: "veiculos", Subcategory: "carros",
		Price: listingapp.PriceInput{Value: 800, Set: true}, Images: []string{"https://img/1.jpg"},
	})
	if err != nil {
		t.Fatal(err)
	}
	board := NewListingBoard(svc)

	if err := board.Approve(ctx, l.ID); err != nil {
		t.Fatal(err)
	}
	if err := board.SetFeatured(ctx, l.ID, true); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.FindByID(ctx, l.ID)
	if got.Status != listingdomain.StatusActive || !got.Featured {
		t.Fatalf("after approve+highlight = %+v", got)
	}
	if total, active, _ := board.Counts(ctx); total != 1 || active != 1 {
		t.Fatalf("counts = %d/%d", total, active)
	}

	if err := board.Delete(ctx, l.ID); err != nil {
		t.Fatal(err)
	}
	if all, _ := board.All(ctx); len(all) != 0 {
		t.Fatalf("listing survived delete: %+v", all)
	}
}
