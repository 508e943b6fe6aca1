// internal/service/notification/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

type TemplateModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"column:nome;uniqueIndex;size:64;not null"`
	Subject     string `gorm:"column:assunto;size:255"`
	Description string `gorm:"column:descricao;size:512"`
	HTMLBody    string `gorm:"column:conteudo_html;type:text"`
	Active      bool   `gorm:"column:ativo"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TemplateModel) TableName() string {
	return "email_templates"
}

// Migrate creates or updates the notification tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TemplateModel{})
}
