// internal/pkg/session/principal.go
package session

import (
	"context"

	"github.com/pkg/errors"
)

const UserTypeAdmin = "administrador"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("administrator access required")
)

// Principal is the signed-in user as seen by request handlers. It is a
// snapshot of the profile taken when the request entered the session gate.
type Principal struct {
	UserID         string
	Email          string
	FullName       string
	Nickname       string
	Phone          string
	Picture        string
	UserType       string
	ApprovalStatus string
	PaymentStatus  string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.UserType == UserTypeAdmin
}

// NeedsProfileCompletion is true while phone or nickname is missing.
func (p *Principal) NeedsProfileCompletion() bool {
	return p.Phone == "" || p.Nickname == ""
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal, or nil for anonymous requests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p
}

// Require returns the principal or ErrUnauthenticated.
func Require(ctx context.Context) (*Principal, error) {
	p := FromContext(ctx)
	if p == nil || p.Email == "" {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// RequireAdmin is Require plus the administrator check.
func RequireAdmin(ctx context.Context) (*Principal, error) {
	p, err := Require(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return p, nil
}
