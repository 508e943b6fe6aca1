// internal/service/admin/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	accountdomain "github.com/klausterra/alpha-se-1/internal/service/account/domain"
	"github.com/klausterra/alpha-se-1/internal/service/admin/application"
	"github.com/klausterra/alpha-se-1/internal/service/admin/domain"
	listingdomain "github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

var errorStatus = map[error]int{
	domain.ErrUnknownTarget:          http.StatusBadRequest,
	domain.ErrUnknownAction:          http.StatusBadRequest,
	domain.ErrMissingID:              http.StatusBadRequest,
	accountdomain.ErrUserNotFound:    http.StatusNotFound,
	listingdomain.ErrListingNotFound: http.StatusNotFound,
}

type AdminHandler struct {
	service *application.AdminService
}

func NewAdminHandler(service *application.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/board", web.AdminOnly(h.handleBoard))
	mux.HandleFunc("GET /api/admin/stats", web.AdminOnly(h.handleStats))
	mux.HandleFunc("POST /api/admin/actions", web.AdminOnly(h.handleAction))
}

func (h *AdminHandler) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(r.Context())
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, board)
}

func (h *AdminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	var req application.ActionRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.service.Apply(r.Context(), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, result)
}
