// internal/service/referral/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	ErrPartnerNotFound = errors.New("Influencer não encontrado.")
	ErrCodeTaken       = errors.New("Este código de indicação já está em uso.")
	ErrInvalidPayout   = errors.New("Informe um valor de pagamento maior que zero.")
	ErrAlreadyAccrued  = errors.New("commission already accrued for payment")
	ErrNotPartner      = errors.New("Você não está cadastrado como influencer.")
)

const (
	MsgNameRequired = "Nome é obrigatório."
	MsgEmailInvalid = "Informe um email válido."
	MsgCodeInvalid  = "O código de indicação deve ter 6 letras ou números."
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string     { return e.Message }
func (e *ValidationError) FieldName() string { return e.Field }
