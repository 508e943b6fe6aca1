package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
)

func newRepo(t *testing.T) *GormUserRepository {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	return NewGormUserRepository(db)
}

func utcDay(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	u := domain.NewUser("u1", "Ana@X.com", "Ana Souza", "", now)
	if err := repo.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByEmail(ctx, "ana@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "u1" || got.UserType != domain.UserTypeVisitor || got.ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("got %+v", got)
	}

	dup := domain.NewUser("u2", "ana@x.com", "Other", "", now)
	if err := repo.Create(ctx, dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate create = %v, want ErrEmailTaken", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("FindByID(missing) = %v", err)
	}
}

func TestSaveKeepsEmailFlags(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	u := domain.NewUser("u1", "ana@x.com", "Ana", "", time.Now())
	_ = repo.Create(ctx, u)

	if ok, err := repo.MarkFlag(ctx, "u1", domain.FlagWelcomeEmail); err != nil || !ok {
		t.Fatalf("first MarkFlag = %v, %v", ok, err)
	}
	if ok, _ := repo.MarkFlag(ctx, "u1", domain.FlagWelcomeEmail); ok {
		t.Fatal("second MarkFlag claimed the flag again")
	}

	// u is a stale copy with WelcomeEmailSent=false
	u.Nickname = "Aninha"
	if err := repo.Save(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.FindByID(ctx, "u1")
	if !got.WelcomeEmailSent || got.Nickname != "Aninha" {
		t.Fatalf("after save: %+v", got)
	}

	if err := repo.UnmarkFlag(ctx, "u1", domain.FlagWelcomeEmail); err != nil {
		t.Fatal(err)
	}
	if ok, _ := repo.MarkFlag(ctx, "u1", domain.FlagWelcomeEmail); !ok {
		t.Fatal("flag not claimable after unmark")
	}
}

func TestExpireVisitors(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)

	seed := []*domain.User{
		{ID: "expired", Email: "a@x.com", UserType: domain.UserTypeVisitor, ApprovalStatus: domain.ApprovalApproved, PaymentStatus: domain.PaymentPaid, ExpiresOn: utcDay(2025, 3, 10)},
		{ID: "today", Email: "b@x.com", UserType: domain.UserTypeVisitor, ApprovalStatus: domain.ApprovalApproved, PaymentStatus: domain.PaymentPaid, ExpiresOn: utcDay(2025, 3, 11)},
		{ID: "resident", Email: "c@x.com", UserType: domain.UserTypeResident, ApprovalStatus: domain.ApprovalApproved, ExpiresOn: utcDay(2025, 1, 1)},
		{ID: "pending", Email: "d@x.com", UserType: domain.UserTypeVisitor, ApprovalStatus: domain.ApprovalPending, ExpiresOn: utcDay(2025, 1, 1)},
	}
	for _, u := range seed {
		u.CreatedAt = now
		if err := repo.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	n, err := repo.ExpireVisitors(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expired %d users, want 1", n)
	}
	got, _ := repo.FindByID(ctx, "expired")
	if got.ApprovalStatus != domain.ApprovalRejected || got.PaymentStatus != domain.PaymentExpired {
		t.Fatalf("expired user: %+v", got)
	}
	still, _ := repo.FindByID(ctx, "today")
	if still.ApprovalStatus != domain.ApprovalApproved {
		t.Fatalf("user expiring today was flipped: %+v", still)
	}
}

func TestListAndCounts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	users := []*domain.User{
		{ID: "1", Email: "ana@x.com", FullName: "Ana Souza", UserType: domain.UserTypeResident, ApprovalStatus: domain.ApprovalPending, ReferrerID: "p1", CreatedAt: now},
		{ID: "2", Email: "bia@x.com", FullName: "Beatriz", UserType: domain.UserTypeVisitor, ApprovalStatus: domain.ApprovalApproved, PaymentStatus: domain.PaymentPaid, ReferrerID: "p1", CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "3", Email: "caio@x.com", FullName: "Caio", UserType: domain.UserTypeVisitor, ApprovalStatus: domain.ApprovalPending, ReferrerID: "p1", CreatedAt: now.AddDate(0, -2, 0)},
		{ID: "4", Email: "dani@x.com", FullName: "Daniela", UserType: domain.UserTypeResident, ApprovalStatus: domain.ApprovalApproved, CreatedAt: now},
	}
	for _, u := range users {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := repo.List(ctx, domain.UserFilter{ApprovalStatus: domain.ApprovalPending})
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending = %d, %v", len(pending), err)
	}
	found, _ := repo.List(ctx, domain.UserFilter{Search: "SOUZA"})
	if len(found) != 1 || found[0].ID != "1" {
		t.Fatalf("search = %+v", found)
	}

	total, _ := repo.CountAll(ctx)
	nPending, _ := repo.CountByApproval(ctx, domain.ApprovalPending)
	if total != 4 || nPending != 2 {
		t.Fatalf("counts = %d/%d", total, nPending)
	}

	stats, err := repo.ReferralStats(ctx, "p1", now)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.ReferralStats{Total: 3, Today: 1, LastWeek: 2, ThisMonth: 2, Paid: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}
