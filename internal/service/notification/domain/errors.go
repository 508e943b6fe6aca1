// internal/service/notification/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	ErrTemplateNotFound = errors.New("Template não encontrado.")
	ErrTemplateExists   = errors.New("Já existe um template com este nome.")
	ErrTemplateInactive = errors.New("template inactive")
	ErrContactLimited   = errors.New("Muitas mensagens enviadas. Tente novamente mais tarde.")
)

const (
	MsgRequiredFields = "Preencha todos os campos obrigatórios."
	MsgContactName    = "Informe seu nome."
	MsgContactEmail   = "Informe um email válido."
	MsgContactMessage = "Escreva sua mensagem."
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string     { return e.Message }
func (e *ValidationError) FieldName() string { return e.Field }
