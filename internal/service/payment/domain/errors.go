// internal/service/payment/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	ErrVisitorsOnly     = errors.New("Somente visitantes precisam pagar pelo acesso.")
	ErrCheckoutFailed   = errors.New("Não foi possível iniciar o pagamento. Resposta inválida do servidor.")
	ErrMissingSessionID = errors.New("Sessão de pagamento não informada.")
	ErrUnknownCheckout  = errors.New("Sessão de pagamento não encontrada.")
)
