// internal/service/listing/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

// ListingModel maps the listings table. Column names follow the web client's
// field names.
type ListingModel struct {
	ID          string   `gorm:"primaryKey;size:36"`
	Title       string   `gorm:"column:titulo;size:100;not null"`
	Description string   `gorm:"column:descricao;type:text"`
	Category    string   `gorm:"column:categoria;size:32;index"`
	Subcategory string   `gorm:"column:subcategoria;size:32"`
	Price       float64  `gorm:"column:preco;type:decimal(12,2)"`
	Images      []string `gorm:"column:imagens;serializer:json;type:text"`
	Status      string   `gorm:"size:16;index"`
	Featured    bool     `gorm:"column:destacado"`

	OwnerEmail    string `gorm:"column:created_by;size:191;index"`
	OwnerName     string `gorm:"column:nome_anunciante;size:191"`
	OwnerNickname string `gorm:"column:nickname;size:64"`
	OwnerWhatsApp string `gorm:"column:whatsapp;size:32"`
	OwnerPhotoURL string `gorm:"column:anunciante_foto_url;size:512"`
	OwnerType     string `gorm:"column:user_type;size:16"`

	ExpiresOn *time.Time `gorm:"column:data_expiracao;type:date;index"`
	CreatedAt time.Time  `gorm:"index"`
	UpdatedAt time.Time
}

func (ListingModel) TableName() string {
	return "listings"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ListingModel{})
}
