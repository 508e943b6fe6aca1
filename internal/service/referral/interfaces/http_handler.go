// internal/service/referral/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/referral/application"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
)

var errorStatus = map[error]int{
	domain.ErrPartnerNotFound: http.StatusNotFound,
	domain.ErrNotPartner:      http.StatusNotFound,
	domain.ErrCodeTaken:       http.StatusConflict,
	domain.ErrInvalidPayout:   http.StatusBadRequest,
}

type ReferralHandler struct {
	service *application.ReferralService
}

func NewReferralHandler(service *application.ReferralService) *ReferralHandler {
	return &ReferralHandler{service: service}
}

func (h *ReferralHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/referrals/me", web.Authenticated(h.handleDashboard))

	mux.HandleFunc("GET /api/admin/partners", web.AdminOnly(h.handleList))
	mux.HandleFunc("POST /api/admin/partners", web.AdminOnly(h.handleCreate))
	mux.HandleFunc("PUT /api/admin/partners/{id}", web.AdminOnly(h.handleUpdate))
	mux.HandleFunc("DELETE /api/admin/partners/{id}", web.AdminOnly(h.handleDelete))
	mux.HandleFunc("POST /api/admin/partners/{id}/payouts", web.AdminOnly(h.handlePayout))
}

func (h *ReferralHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, d)
}

func (h *ReferralHandler) handleList(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.ListPartners(r.Context())
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, partners)
}

func (h *ReferralHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req application.PartnerRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.service.CreatePartner(r.Context(), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusCreated, application.ToPartnerDTO(p, h.service.PublicBaseURL()))
}

func (h *ReferralHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req application.PartnerRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.service.UpdatePartner(r.Context(), r.PathValue("id"), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToPartnerDTO(p, h.service.PublicBaseURL()))
}

func (h *ReferralHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePartner(r.Context(), r.PathValue("id")); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReferralHandler) handlePayout(w http.ResponseWriter, r *http.Request) {
	var req application.PayoutRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.service.RegisterPayout(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToPartnerDTO(p, h.service.PublicBaseURL()))
}
