// internal/service/chat/interfaces/http_handler.go
package interfaces

import (
	"net/http"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/chat/application"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
)

var errorStatus = map[error]int{
	domain.ErrConversationNotFound: http.StatusNotFound,
	domain.ErrListingUnavailable:   http.StatusNotFound,
	domain.ErrNotParticipant:       http.StatusForbidden,
	domain.ErrSelfConversation:     http.StatusBadRequest,
	domain.ErrRateLimited:          http.StatusTooManyRequests,
}

type ChatHandler struct {
	service      *application.ChatService
	pollInterval time.Duration
}

func NewChatHandler(service *application.ChatService, pollInterval time.Duration) *ChatHandler {
	return &ChatHandler{service: service, pollInterval: pollInterval}
}

func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chats", web.Authenticated(h.handleStart))
	mux.HandleFunc("GET /api/chats", web.Authenticated(h.handleList))
	mux.HandleFunc("GET /api/chats/{id}", web.Authenticated(h.handleGet))
	mux.HandleFunc("DELETE /api/chats/{id}", web.Authenticated(h.handleDelete))
	mux.HandleFunc("GET /api/chats/{id}/messages", web.Authenticated(h.handleMessages))
	mux.HandleFunc("POST /api/chats/{id}/messages", web.Authenticated(h.handleSend))
	mux.HandleFunc("GET /api/chats/{id}/stream", web.Authenticated(h.handleStream))
}

func (h *ChatHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req application.StartRequest
	if err := web.DecodeJSON(r, &req); err != nil || req.ListingID == "" {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := session.FromContext(r.Context())
	conv, created, err := h.service.StartConversation(r.Context(), p, req.ListingID, req.Message)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	web.WriteJSON(w, status, application.StartResult{
		Conversation: application.ToConversationDTO(conv, p.Email),
		Created:      created,
	})
}

func (h *ChatHandler) handleList(w http.ResponseWriter, r *http.Request) {
	p := session.FromContext(r.Context())
	convs, err := h.service.ListConversations(r.Context(), p, r.URL.Query().Get("q"))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToConversationDTOs(convs, p.Email))
}

func (h *ChatHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p := session.FromContext(r.Context())
	conv, err := h.service.GetConversation(r.Context(), p, r.PathValue("id"))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToConversationDTO(conv, p.Email))
}

func (h *ChatHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteConversation(r.Context(), session.FromContext(r.Context()), r.PathValue("id")); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMessages is the short-poll endpoint; since is RFC 3339 and optional.
func (h *ChatHandler) handleMessages(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			web.WriteError(w, http.StatusBadRequest, "Parâmetro since inválido.")
			return
		}
		since = t
	}
	p := session.FromContext(r.Context())
	msgs, err := h.service.ListMessages(r.Context(), p, r.PathValue("id"), since)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToMessageDTOs(msgs, p.Email))
}

func (h *ChatHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req application.SendRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := session.FromContext(r.Context())
	m, err := h.service.SendMessage(r.Context(), p, r.PathValue("id"), req.Body)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusCreated, application.ToMessageDTO(m, p.Email))
}
