package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/listing/application"
	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure/rule"
)

func newHandler(t *testing.T) (http.Handler, *infrastructure.GormListingRepository) {
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
	svc := application.NewListingService(repo, policy, nil, clock.Fixed{T: time.Now().UTC()}, noop.NewTracerProvider().Tracer("test"))

	mux := http.NewServeMux()
	NewListingHandler(svc, "https://alpha-se.com.br/").RegisterRoutes(mux)
	// tests pass the signed-in email in X-Test-User
	withUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if email := r.Header.Get("X-Test-User"); email != "" {
			p := &session.Principal{UserID: email, Email: email, FullName: "Teste Silva", UserType: "morador"}
			r = r.WithContext(session.WithPrincipal(r.Context(), p))
		}
		mux.ServeHTTP(w, r)
	})
	return withUser, repo
}

func TestCreateRequiresSessionAndValidates(t *testing.T) {
	h, _ := newHandler(t)

	body := `{"titulo":"Sofá","descricao":"3 lugares","categoria":"para_casa","subcategoria":"moveis","preco":"1.200,00","imagens":["https://img/1.jpg"]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
	req.Header.Set("X-Test-User", "t@x.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	var dto application.ListingDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &dto)
	if dto.Price != 1200 || dto.PriceFormatted != "1.200,00" || dto.Status != "pending" || dto.OwnerNickname != "Teste" {
		t.Fatalf("dto = %+v", dto)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(`{"titulo":"x"}`))
	req.Header.Set("X-Test-User", "t@x.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), domain.MsgRequiredFields) {
		t.Fatalf("invalid create = %d %s", rec.Code, rec.Body)
	}
}

func TestPublicBrowseAndPreview(t *testing.T) {
	h, repo := newHandler(t)
	ctx := context.Background()
	_ = repo.Create(ctx, &domain.Listing{ID: "l1", Title: "Casa <linda>", Description: "Vista para o lago",
		Category: "imoveis", Subcategory: "venda_casa", Price: 850000, Images: []string{"https://img/casa.jpg"},
		Status: domain.StatusActive, CreatedAt: time.Now().UTC()})
	_ = repo.Create(ctx, &domain.Listing{ID: "l2", Title: "Moto", Category: "veiculos", Subcategory: "motos",
		Status: domain.StatusPending, CreatedAt: time.Now().UTC()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/listings?categoria=imoveis&subcategoria=all", nil))
	var listed []application.ListingDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if rec.Code != http.StatusOK || len(listed) != 1 || listed[0].CategoryLabel != "Imóveis" {
		t.Fatalf("browse = %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/listings/l1/preview", nil))
	page := rec.Body.String()
	if rec.Code != http.StatusOK ||
		!strings.Contains(page, `content="https://img/casa.jpg"`) ||
		!strings.Contains(page, "Casa &lt;linda&gt; - R$ 850.000,00") ||
		!strings.Contains(page, "https://alpha-se.com.br/AnuncioDetalhes?id=l1") {
		t.Fatalf("preview = %d\n%s", rec.Code, page)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/listings/l2/preview", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("pending preview = %d", rec.Code)
	}
}
