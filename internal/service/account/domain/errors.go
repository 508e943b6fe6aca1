// internal/service/account/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidReferralCode = errors.New("Código de indicação inválido ou não encontrado.")
	ErrUnknownAction       = errors.New("unknown moderation action")
)

// ValidationError carries the message shown next to the offending form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string     { return e.Message }
func (e *ValidationError) FieldName() string { return e.Field }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
