// internal/service/account/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

// UserModel maps the users table.
type UserModel struct {
	ID                string     `gorm:"primaryKey;size:36"`
	Email             string     `gorm:"uniqueIndex;size:191;not null"`
	FullName          string     `gorm:"size:191"`
	Nickname          string     `gorm:"size:64"`
	Phone             string     `gorm:"size:32"`
	ProfilePictureURL string     `gorm:"size:512"`
	UserType          string     `gorm:"size:16;index"`
	ApprovalStatus    string     `gorm:"size:16;index"`
	PaymentStatus     string     `gorm:"size:16"`
	ExpiresOn         *time.Time `gorm:"type:date"`

	ResidenceProofURL string `gorm:"size:512"`
	PaymentProofURL   string `gorm:"size:512"`
	ExtractedName     string `gorm:"size:191"`
	ExtractedAddress  string `gorm:"size:512"`

	Address                  string `gorm:"size:512"`
	CondominiumMain          string `gorm:"column:condominio_principal;size:64"`
	CondominiumLagoaIngleses string `gorm:"column:condominio_lagoa_ingleses;size:64"`

	ReferralCodeUsed string `gorm:"column:codigo_indicacao_usado;size:16"`
	ReferrerID       string `gorm:"column:influencer_id;size:36;index"`

	WelcomeEmailSent        bool
	NewUserNotificationSent bool

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// Migrate creates or updates the account tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{})
}
