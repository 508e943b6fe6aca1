// internal/pkg/web/response.go
package web

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

// FieldError is implemented by validation errors that name a form field.
type FieldError interface {
	error
	FieldName() string
}

// Extract continues the caller's trace from the request headers.
func Extract(r *http.Request) *http.Request {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteError answers {"error": msg} with status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// Fail maps err to a response. mapping lists context-specific sentinels; the
// session and validation errors shared by every context are handled here.
func Fail(w http.ResponseWriter, r *http.Request, err error, mapping map[error]int) {
	var fe FieldError
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, session.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error())
		return
	case errors.As(err, &fe):
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: fe.Error(), Field: fe.FieldName()})
		return
	}
	for target, status := range mapping {
		if errors.Is(err, target) {
			WriteError(w, status, target.Error())
			return
		}
	}
	logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	if id := tracing.TraceID(r.Context()); id != "" {
		w.Header().Set("X-Trace-Id", id)
	}
	WriteError(w, http.StatusInternalServerError, "Erro interno. Tente novamente.")
}

// Authenticated rejects anonymous requests before they reach next.
func Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := session.Require(r.Context()); err != nil {
			Fail(w, r, err, nil)
			return
		}
		next(w, r)
	}
}

// AdminOnly guards every administration route.
func AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := session.RequireAdmin(r.Context()); err != nil {
			Fail(w, r, err, nil)
			return
		}
		next(w, r)
	}
}
