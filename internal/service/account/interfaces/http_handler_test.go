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

	"github.com/klausterra/alpha-se-1/internal/pkg/auth"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/service/account/application"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
	"github.com/klausterra/alpha-se-1/internal/service/account/infrastructure"
)

type noPartners struct{}

func (noPartners) PartnerIDByCode(context.Context, string) (string, error) { return "", nil }

type testServer struct {
	handler  http.Handler
	verifier *auth.Verifier
	repo     *infrastructure.GormUserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := infrastructure.Migrate(db); err != nil {
		t.Fatal(err)
	}
	repo := infrastructure.NewGormUserRepository(db)
	svc := application.NewAccountService(repo, nil, noPartners{}, clock.Fixed{T: time.Now().UTC()},
		noop.NewTracerProvider().Tracer("test"), application.Options{})
	verifier := auth.NewVerifier("secret", "alpha-se-platform")

	mux := http.NewServeMux()
	NewAccountHandler(svc).RegisterRoutes(mux)
	return &testServer{
		handler:  NewSessionGate(verifier, svc).Middleware(mux),
		verifier: verifier,
		repo:     repo,
	}
}

func (s *testServer) do(t *testing.T, method, path, email, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if email != "" {
		tok, err := s.verifier.Issue(auth.Identity{Email: email, Name: "Teste"}, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestMeRequiresSession(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/api/me", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /api/me = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", rec.Code)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/me", "Ana@X.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	var dto application.UserDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatal(err)
	}
	if dto.Email != "ana@x.com" || dto.Status.Label != domain.StatusLabelReview || !dto.NeedsProfileCompletion {
		t.Fatalf("dto = %+v", dto)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPut, "/api/me", "ana@x.com", `{"full_name":"Ana","nickname":"","phone":"1","user_type":"visitante"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "Apelido é obrigatório." {
		t.Fatalf("body = %+v", body)
	}

	rec = s.do(t, http.MethodPut, "/api/me", "ana@x.com", `{"full_name":"Ana Souza","nickname":"Aninha","phone":"48999990000","user_type":"visitante"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid update = %d body=%s", rec.Code, rec.Body)
	}
}

func TestAdminRoutesRequireAdministrator(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/api/admin/users", "user@x.com", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin = %d", rec.Code)
	}

	admin := domain.NewUser("admin-1", "admin@x.com", "Admin", "", time.Now().UTC())
	admin.UserType = domain.UserTypeAdmin
	admin.ApprovalStatus = domain.ApprovalApproved
	admin.WelcomeEmailSent = true
	admin.NewUserNotificationSent = true
	if err := s.repo.Create(context.Background(), admin); err != nil {
		t.Fatal(err)
	}

	rec := s.do(t, http.MethodGet, "/api/admin/users?approval_status=all", "admin@x.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list = %d", rec.Code)
	}
	var users []application.UserDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users) != 2 {
		t.Fatalf("users = %d", len(users))
	}
}
