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

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/notification/application"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
	"github.com/klausterra/alpha-se-1/internal/service/notification/infrastructure"
)

type sinkQueue struct{ jobs []domain.EmailJob }

func (q *sinkQueue) Enqueue(_ context.Context, job domain.EmailJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func newHandler(t *testing.T, q *sinkQueue) http.Handler {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := infrastructure.Migrate(db); err != nil {
		t.Fatal(err)
	}
	svc := application.NewNotificationService(infrastructure.NewGormTemplateRepository(db), q, nil,
		clock.System(time.UTC), noop.NewTracerProvider().Tracer("test"), application.Options{AdminEmail: "contato@alpha-se.com.br"})
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	NewNotificationHandler(svc).RegisterRoutes(mux)
	// X-Test-User carries "email:type" of the signed-in user
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Header.Get("X-Test-User"); v != "" {
			email, userType, _ := strings.Cut(v, ":")
			r = r.WithContext(session.WithPrincipal(r.Context(), &session.Principal{UserID: email, Email: email, UserType: userType}))
		}
		mux.ServeHTTP(w, r)
	})
}

func call(h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const admin = "admin@x.com:administrador"

func TestContactEndpoint(t *testing.T) {
	q := &sinkQueue{}
	h := newHandler(t, q)

	rec := call(h, http.MethodPost, "/api/public/contact", "", `{"name":"Ana","email":"ana@x.com","message":"Oi"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("contact = %d %s", rec.Code, rec.Body)
	}
	if len(q.jobs) != 1 || q.jobs[0].To != "contato@alpha-se.com.br" {
		t.Fatalf("jobs = %+v", q.jobs)
	}

	rec = call(h, http.MethodPost, "/api/public/contact", "", `{"name":"Ana","email":"","message":"Oi"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid contact = %d", rec.Code)
	}
}

func TestTemplateAdminRoutes(t *testing.T) {
	h := newHandler(t, &sinkQueue{})

	if rec := call(h, http.MethodGet, "/api/admin/email-templates", "user@x.com:morador", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin = %d", rec.Code)
	}

	rec := call(h, http.MethodGet, "/api/admin/email-templates", admin, "")
	var list []application.TemplateDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list = %s (%v)", rec.Body, err)
	}
	id := list[0].ID

	rec = call(h, http.MethodPost, "/api/admin/email-templates/"+id+"/toggle", admin, "")
	var toggled application.TemplateDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &toggled)
	if rec.Code != http.StatusOK || toggled.Active {
		t.Fatalf("toggle = %d %+v", rec.Code, toggled)
	}

	rec = call(h, http.MethodGet, "/api/admin/email-templates/"+id+"/preview", admin, "")
	var preview application.PreviewDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &preview)
	if !strings.Contains(preview.HTMLBody, "João Silva") {
		t.Fatalf("preview = %+v", preview)
	}

	rec = call(h, http.MethodPost, "/api/admin/email-templates", admin, `{"nome":"boas_vindas","assunto":"x","conteudo_html":"y"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate = %d", rec.Code)
	}
	rec = call(h, http.MethodPost, "/api/admin/email-templates", admin, `{"nome":"aviso","assunto":"","conteudo_html":"y"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing subject = %d", rec.Code)
	}
	if rec := call(h, http.MethodDelete, "/api/admin/email-templates/"+id, admin, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec := call(h, http.MethodPut, "/api/admin/email-templates/"+id, admin, `{"nome":"a","assunto":"b","conteudo_html":"c"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("update deleted = %d", rec.Code)
	}
}
