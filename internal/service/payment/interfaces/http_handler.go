// internal/service/payment/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/payment/application"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain"
)

var errorStatus = map[error]int{
	domain.ErrVisitorsOnly:     http.StatusForbidden,
	domain.ErrCheckoutFailed:   http.StatusBadGateway,
	domain.ErrMissingSessionID: http.StatusBadRequest,
	domain.ErrUnknownCheckout:  http.StatusNotFound,
}

type PaymentHandler struct {
	service *application.PaymentService
}

func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/payments/checkout", web.Authenticated(h.handleCheckout))
	mux.HandleFunc("POST /api/payments/confirm", web.Authenticated(h.handleConfirm))
}

func (h *PaymentHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.CreateCheckout(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *PaymentHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.ConfirmPayment(r.Context(), session.FromContext(r.Context()), req.SessionID); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
