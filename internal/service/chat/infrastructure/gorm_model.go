// internal/service/chat/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

// ConversationModel maps the chats table.
type ConversationModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	ListingID    string `gorm:"column:anuncio_id;size:36;not null;uniqueIndex:uniq_chat_listing_buyer,priority:1"`
	ListingTitle string `gorm:"column:anuncio_titulo;size:100"`

	BuyerEmail     string `gorm:"column:comprador_email;size:191;not null;uniqueIndex:uniq_chat_listing_buyer,priority:2;index"`
	BuyerName      string `gorm:"column:comprador_nome;size:191"`
	BuyerPhotoURL  string `gorm:"column:comprador_foto_url;size:512"`
	SellerEmail    string `gorm:"column:vendedor_email;size:191;not null;index"`
	SellerName     string `gorm:"column:vendedor_nome;size:191"`
	SellerPhotoURL string `gorm:"column:vendedor_foto_url;size:512"`

	LastMessage   string     `gorm:"column:ultima_mensagem;type:text"`
	LastMessageAt *time.Time `gorm:"column:ultima_mensagem_data"`
	UnreadBuyer   int        `gorm:"column:nao_lidas_comprador;not null;default:0"`
	UnreadSeller  int        `gorm:"column:nao_lidas_vendedor;not null;default:0"`

	CreatedAt time.Time
}

func (ConversationModel) TableName() string {
	return "chats"
}

// MessageModel maps the messages table.
type MessageModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	ConversationID string    `gorm:"column:chat_id;size:36;not null;index:idx_messages_chat_created,priority:1"`
	SenderEmail    string    `gorm:"column:remetente_email;size:191"`
	Body           string    `gorm:"column:conteudo;type:text"`
	CreatedAt      time.Time `gorm:"index:idx_messages_chat_created,priority:2"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ConversationModel{}, &MessageModel{})
}
