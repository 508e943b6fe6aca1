// internal/service/notification/interfaces/http_handler.go
package interfaces

import (
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/notification/application"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

var errorStatus = map[error]int{
	domain.ErrTemplateNotFound: http.StatusNotFound,
	domain.ErrTemplateExists:   http.StatusConflict,
	domain.ErrContactLimited:   http.StatusTooManyRequests,
}

type NotificationHandler struct {
	service *application.NotificationService
}

func NewNotificationHandler(service *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/public/contact", h.handleContact)

	mux.HandleFunc("GET /api/admin/email-templates", web.AdminOnly(h.handleList))
	mux.HandleFunc("POST /api/admin/email-templates", web.AdminOnly(h.handleCreate))
	mux.HandleFunc("PUT /api/admin/email-templates/{id}", web.AdminOnly(h.handleUpdate))
	mux.HandleFunc("DELETE /api/admin/email-templates/{id}", web.AdminOnly(h.handleDelete))
	mux.HandleFunc("POST /api/admin/email-templates/{id}/toggle", web.AdminOnly(h.handleToggle))
	mux.HandleFunc("GET /api/admin/email-templates/{id}/preview", web.AdminOnly(h.handlePreview))
}

func (h *NotificationHandler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req application.ContactRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.SubmitContact(r.Context(), clientIP(r), req); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) || errors.Is(err, domain.ErrContactLimited) {
			web.Fail(w, r, err, errorStatus)
			return
		}
		logger.Ctx(r.Context()).Error().Err(err).Msg("contact message not queued")
		web.WriteError(w, http.StatusBadGateway, "Não foi possível enviar sua mensagem. Tente novamente mais tarde.")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *NotificationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToTemplateDTOs(templates))
}

func (h *NotificationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req application.TemplateRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	t, err := h.service.CreateTemplate(r.Context(), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusCreated, application.ToTemplateDTO(t))
}

func (h *NotificationHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req application.TemplateRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	t, err := h.service.UpdateTemplate(r.Context(), r.PathValue("id"), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToTemplateDTO(t))
}

func (h *NotificationHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.ToggleTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToTemplateDTO(t))
}

func (h *NotificationHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.service.PreviewTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, preview)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
