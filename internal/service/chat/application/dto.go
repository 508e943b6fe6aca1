// internal/service/chat/application/dto.go
package application

import (
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
)

// ConversationDTO is a conversation as seen by one participant.
type ConversationDTO struct {
	ID            string       `json:"id"`
	ListingID     string       `json:"anuncio_id"`
	ListingTitle  string       `json:"anuncio_titulo"`
	BuyerEmail    string       `json:"comprador_email"`
	SellerEmail   string       `json:"vendedor_email"`
	Role          domain.Role  `json:"papel"`
	Counterpart   domain.Party `json:"outro_participante"`
	LastMessage   string       `json:"ultima_mensagem"`
	LastMessageAt *time.Time   `json:"ultima_mensagem_data,omitempty"`
	Unread        int          `json:"nao_lidas"`
	CreatedAt     time.Time    `json:"created_date"`
}

func ToConversationDTO(c *domain.Conversation, viewer string) ConversationDTO {
	return ConversationDTO{
		ID:            c.ID,
		ListingID:     c.ListingID,
		ListingTitle:  c.ListingTitle,
		BuyerEmail:    c.BuyerEmail,
		SellerEmail:   c.SellerEmail,
		Role:          c.RoleOf(viewer),
		Counterpart:   c.Counterpart(viewer),
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		Unread:        c.UnreadFor(viewer),
		CreatedAt:     c.CreatedAt,
	}
}

func ToConversationDTOs(cs []*domain.Conversation, viewer string) []ConversationDTO {
	out := make([]ConversationDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToConversationDTO(c, viewer))
	}
	return out
}

type MessageDTO struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"chat_id"`
	SenderEmail    string    `json:"remetente_email"`
	Body           string    `json:"conteudo"`
	Mine           bool      `json:"minha"`
	CreatedAt      time.Time `json:"created_date"`
}

func ToMessageDTO(m *domain.Message, viewer string) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderEmail:    m.SenderEmail,
		Body:           m.Body,
		Mine:           equalEmail(m.SenderEmail, viewer),
		CreatedAt:      m.CreatedAt,
	}
}

func ToMessageDTOs(ms []*domain.Message, viewer string) []MessageDTO {
	out := make([]MessageDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMessageDTO(m, viewer))
	}
	return out
}

// StartRequest is the body of POST /api/chats.
type StartRequest struct {
	ListingID string `json:"anuncio_id"`
	Message   string `json:"mensagem"`
}

// SendRequest is the body of POST /api/chats/{id}/messages.
type SendRequest struct {
	Body string `json:"conteudo"`
}

// StartResult tells the client whether an existing thread was reused.
type StartResult struct {
	Conversation ConversationDTO `json:"chat"`
	Created      bool            `json:"criado"`
}
