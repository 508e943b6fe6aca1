// internal/service/account/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/account/application"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
)

var errorStatus = map[error]int{
	domain.ErrUserNotFound:        http.StatusNotFound,
	domain.ErrEmailTaken:          http.StatusConflict,
	domain.ErrInvalidReferralCode: http.StatusBadRequest,
}

type AccountHandler struct {
	service *application.AccountService
}

func NewAccountHandler(service *application.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/me", web.Authenticated(h.handleMe))
	mux.HandleFunc("PUT /api/me", web.Authenticated(h.handleUpdateProfile))
	mux.HandleFunc("POST /api/me/referral-code", web.Authenticated(h.handleApplyReferralCode))

	mux.HandleFunc("GET /api/admin/users", web.AdminOnly(h.handleListUsers))
	mux.HandleFunc("PATCH /api/admin/users/{id}", web.AdminOnly(h.handleAdminUpdate))
	mux.HandleFunc("DELETE /api/admin/users/{id}", web.AdminOnly(h.handleDelete))
}

func (h *AccountHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	p := session.FromContext(r.Context())
	user, err := h.service.GetUser(r.Context(), p.UserID)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToUserDTO(user))
}

func (h *AccountHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateProfileRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := session.FromContext(r.Context())
	user, err := h.service.UpdateProfile(r.Context(), p.UserID, req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToUserDTO(user))
}

func (h *AccountHandler) handleApplyReferralCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := session.FromContext(r.Context())
	user, err := h.service.ApplyReferralCode(r.Context(), p.UserID, req.Code)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToUserDTO(user))
}

func (h *AccountHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.UserFilter{
		ApprovalStatus: domain.ApprovalStatus(allToEmpty(q.Get("approval_status"))),
		UserType:       domain.UserType(allToEmpty(q.Get("user_type"))),
		Search:         q.Get("search"),
	}
	users, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToUserDTOs(users))
}

func (h *AccountHandler) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req application.AdminUpdateUserRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.service.AdminUpdateUser(r.Context(), r.PathValue("id"), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToUserDTO(user))
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func allToEmpty(v string) string {
	if v == "all" {
		return ""
	}
	return v
}
