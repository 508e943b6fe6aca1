// internal/service/chat/infrastructure/mapper.go
package infrastructure

import "github.com/klausterra/alpha-se-1/internal/service/chat/domain"

func toDomainConversation(m *ConversationModel) *domain.Conversation {
	return &domain.Conversation{
		ID:             m.ID,
		ListingID:      m.ListingID,
		ListingTitle:   m.ListingTitle,
		BuyerEmail:     m.BuyerEmail,
		BuyerName:      m.BuyerName,
		BuyerPhotoURL:  m.BuyerPhotoURL,
		SellerEmail:    m.SellerEmail,
		SellerName:     m.SellerName,
		SellerPhotoURL: m.SellerPhotoURL,
		LastMessage:    m.LastMessage,
		LastMessageAt:  m.LastMessageAt,
		UnreadBuyer:    m.UnreadBuyer,
		UnreadSeller:   m.UnreadSeller,
		CreatedAt:      m.CreatedAt,
	}
}

func fromDomainConversation(c *domain.Conversation) *ConversationModel {
	return &ConversationModel{
		ID:             c.ID,
		ListingID:      c.ListingID,
		ListingTitle:   c.ListingTitle,
		BuyerEmail:     c.BuyerEmail,
		BuyerName:      c.BuyerName,
		BuyerPhotoURL:  c.BuyerPhotoURL,
		SellerEmail:    c.SellerEmail,
		SellerName:     c.SellerName,
		SellerPhotoURL: c.SellerPhotoURL,
		LastMessage:    c.LastMessage,
		LastMessageAt:  c.LastMessageAt,
		UnreadBuyer:    c.UnreadBuyer,
		UnreadSeller:   c.UnreadSeller,
		CreatedAt:      c.CreatedAt,
	}
}

func toDomainMessage(m *MessageModel) *domain.Message {
	return &domain.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderEmail:    m.SenderEmail,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}

// fromDomainMessage stores timestamps in UTC so the "since" cursor compares
// correctly on every driver.
func fromDomainMessage(m *domain.Message) *MessageModel {
	return &MessageModel{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderEmail:    m.SenderEmail,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}
