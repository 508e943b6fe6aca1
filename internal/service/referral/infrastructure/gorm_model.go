// internal/service/referral/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

type PartnerModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"column:nome;size:191"`
	Email       string  `gorm:"size:191;index"`
	Code        string  `gorm:"column:codigo_indicacao;size:16;uniqueIndex"`
	Accumulated float64 `gorm:"column:total_comissao_acumulada;type:decimal(12,2);default:0"`
	Paid        float64 `gorm:"column:total_comissao_paga;type:decimal(12,2);default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PartnerModel) TableName() string {
	return "influencers"
}

// CommissionEventModel makes accrual idempotent per payment.
type CommissionEventModel struct {
	ID        uint    `gorm:"primaryKey"`
	PaymentID string  `gorm:"size:191;uniqueIndex"`
	PartnerID string  `gorm:"column:influencer_id;size:36;index"`
	Amount    float64 `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time
}

func (CommissionEventModel) TableName() string {
	return "commission_events"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PartnerModel{}, &CommissionEventModel{})
}
