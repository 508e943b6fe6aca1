// internal/service/chat/domain/errors.go
package domain

import "github.com/pkg/errors"

var (
	ErrConversationNotFound  = errors.New("Conversa não encontrada.")
	ErrSelfConversation      = errors.New("Você não pode iniciar uma conversa com seu próprio anúncio.")
	ErrNotParticipant        = errors.New("Acesso negado a este chat.")
	ErrDuplicateConversation = errors.New("conversation already exists for listing and buyer")
	ErrListingUnavailable    = errors.New("Anúncio não encontrado.")
	ErrRateLimited           = errors.New("Você está enviando mensagens rápido demais. Aguarde um instante.")
)

// MessageError is a rejected message body.
type MessageError struct{ Message string }

func (e *MessageError) Error() string     { return e.Message }
func (e *MessageError) FieldName() string { return "mensagem" }

var (
	ErrEmptyMessage   error = &MessageError{"A mensagem não pode estar vazia."}
	ErrMessageTooLong error = &MessageError{"A mensagem é muito longa."}
)
