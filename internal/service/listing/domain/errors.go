// internal/service/listing/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	ErrListingNotFound = errors.New("Anúncio não encontrado.")
	ErrNotOwner        = errors.New("Você não tem permissão para alterar este anúncio.")
)

const (
	MsgRequiredFields    = "Preencha todos os campos obrigatórios."
	MsgImageRequired     = "É necessário adicionar pelo menos uma imagem ao anúncio."
	MsgTooManyImages     = "Máximo de 5 imagens permitidas."
	MsgBadSubcategory    = "Subcategoria inválida para a categoria selecionada."
	MsgBadPrice          = "Preço inválido."
	MsgOwnerNameRequired = "Seu nome precisa estar preenchido no perfil para criar anúncios."
)

// ValidationError is a form error, optionally tied to a field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string     { return e.Message }
func (e *ValidationError) FieldName() string { return e.Field }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
