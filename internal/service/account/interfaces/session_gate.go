// internal/service/account/interfaces/session_gate.go
package interfaces

import (
	"context"
	"net/http"

	"github.com/klausterra/alpha-se-1/internal/pkg/auth"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
)

type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

type SignInService interface {
	SignIn(ctx context.Context, id auth.Identity) (*domain.User, error)
}

// SessionGate turns a platform identity token into a Principal on the request
// context. Requests without a token continue anonymously.
// WebSocket handshakes may carry the token in the access_token query parameter.
type SessionGate struct {
	verifier TokenVerifier
	accounts SignInService
}

func NewSessionGate(verifier TokenVerifier, accounts SignInService) *SessionGate {
	return &SessionGate{verifier: verifier, accounts: accounts}
}

func (g *SessionGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" && r.Header.Get("Upgrade") == "websocket" {
			// browsers cannot set headers on a WebSocket handshake
			raw = r.URL.Query().Get("access_token")
		}
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		r = web.Extract(r)

		id, err := g.verifier.Verify(raw)
		if err != nil {
			web.WriteError(w, http.StatusUnauthorized, "Sessão inválida. Faça login novamente.")
			return
		}
		user, err := g.accounts.SignIn(r.Context(), id)
		if err != nil {
			logger.Ctx(r.Context()).Error().Err(err).Str("email", id.Email).Msg("session gate failed to load profile")
			web.WriteError(w, http.StatusInternalServerError, "Erro ao carregar seu perfil.")
			return
		}

		ctx := session.WithPrincipal(r.Context(), PrincipalOf(user))
		ctx = logger.WithContext(ctx, map[string]string{"user": user.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalOf snapshots the fields handlers need from a profile.
func PrincipalOf(u *domain.User) *session.Principal {
	return &session.Principal{
		UserID:         u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Nickname:       u.Nickname,
		Phone:          u.Phone,
		Picture:        u.ProfilePictureURL,
		UserType:       string(u.UserType),
		ApprovalStatus: string(u.ApprovalStatus),
		PaymentStatus:  string(u.PaymentStatus),
	}
}
