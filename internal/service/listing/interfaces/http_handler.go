// internal/service/listing/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/listing/application"
	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

const maxUploadBytes = 10 << 20

var errorStatus = map[error]int{
	domain.ErrListingNotFound: http.StatusNotFound,
	domain.ErrNotOwner:        http.StatusForbidden,
}

type ListingHandler struct {
	service *application.ListingService
	preview *PreviewRenderer
}

func NewListingHandler(service *application.ListingService, publicBaseURL string) *ListingHandler {
	return &ListingHandler{service: service, preview: NewPreviewRenderer(publicBaseURL)}
}

func (h *ListingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/taxonomy", h.handleTaxonomy)

	// read-optimized routes usable without a session
	mux.HandleFunc("GET /api/public/listings", h.handleBrowse)
	mux.HandleFunc("GET /api/public/listings/featured", h.handleFeatured)
	mux.HandleFunc("GET /api/public/listings/{id}/preview", h.handlePreview)

	mux.HandleFunc("GET /api/listings", web.Authenticated(h.handleBrowse))
	mux.HandleFunc("GET /api/listings/{id}", h.handleGet)
	mux.HandleFunc("POST /api/listings", web.Authenticated(h.handleCreate))
	mux.HandleFunc("PUT /api/listings/{id}", web.Authenticated(h.handleUpdate))
	mux.HandleFunc("DELETE /api/listings/{id}", web.Authenticated(h.handleDelete))
	mux.HandleFunc("GET /api/me/listings", web.Authenticated(h.handleMine))

	mux.HandleFunc("POST /api/uploads", web.Authenticated(h.handleUpload))
}

func (h *ListingHandler) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	web.WriteJSON(w, http.StatusOK, domain.Taxonomy)
}

func (h *ListingHandler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		Category:    q.Get("categoria"),
		Subcategory: q.Get("subcategoria"),
		Search:      q.Get("q"),
	}
	listings, err := h.service.Browse(r.Context(), filter)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToListingDTOs(listings))
}

func (h *ListingHandler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.Featured(r.Context(), application.FeaturedLimit)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToListingDTOs(listings))
}

func (h *ListingHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), session.FromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToListingDTO(l))
}

func (h *ListingHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), nil, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			http.NotFound(w, r)
			return
		}
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if err := h.preview.Render(w, l); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Str("listing_id", l.ID).Msg("render preview")
	}
}

func (h *ListingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req application.ListingRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	l, err := h.service.Create(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusCreated, application.ToListingDTO(l))
}

func (h *ListingHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req application.ListingRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	l, err := h.service.Update(r.Context(), session.FromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToListingDTO(l))
}

func (h *ListingHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), session.FromContext(r.Context()), r.PathValue("id")); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListMine(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToListingDTOs(listings))
}

func (h *ListingHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "Erro ao fazer upload das imagens.")
		return
	}
	defer file.Close()

	url, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		web.WriteError(w, http.StatusBadGateway, "Erro ao fazer upload das imagens.")
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"file_url": url})
}
