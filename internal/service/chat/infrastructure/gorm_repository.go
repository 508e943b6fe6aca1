// internal/service/chat/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
)

const previewMaxRunes = 120

var unreadColumn = map[domain.Role]string{
	domain.RoleBuyer:  "nao_lidas_comprador",
	domain.RoleSeller: "nao_lidas_vendedor",
}

type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormConversationRepository) FindByListingAndBuyer(ctx context.Context, listingID, buyerEmail string) (*domain.Conversation, error) {
	q := r.db.WithContext(ctx).Where("anuncio_id = ? AND comprador_email = ?", listingID, strings.ToLower(buyerEmail))
	return r.first(ctx, q.Order("created_at"))
}

func (r *GormConversationRepository) first(_ context.Context, q *gorm.DB) (*domain.Conversation, error) {
	var m ConversationModel
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, errors.Wrap(err, "load conversation")
	}
	return toDomainConversation(&m), nil
}

func (r *GormConversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	c.BuyerEmail = strings.ToLower(c.BuyerEmail)
	c.SellerEmail = strings.ToLower(c.SellerEmail)
	err := r.db.WithContext(ctx).Create(fromDomainConversation(c)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateConversation
	}
	return errors.Wrap(err, "create conversation")
}

func (r *GormConversationRepository) ListForUser(ctx context.Context, email string) ([]*domain.Conversation, error) {
	email = strings.ToLower(email)
	var models []ConversationModel
	err := r.db.WithContext(ctx).
		Where("comprador_email = ? OR vendedor_email = ?", email, email).
		Order("COALESCE(ultima_mensagem_data, created_at) DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	out := make([]*domain.Conversation, len(models))
	for i := range models {
		out[i] = toDomainConversation(&models[i])
	}
	return out, nil
}

func (r *GormConversationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&MessageModel{}).Error; err != nil {
			return errors.Wrap(err, "delete messages")
		}
		res := tx.Where("id = ?", id).Delete(&ConversationModel{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete conversation")
		}
		if res.RowsAffected == 0 {
			return domain.ErrConversationNotFound
		}
		return nil
	})
}

func (r *GormConversationRepository) RecordMessage(ctx context.Context, m *domain.Message, recipient domain.Role) error {
	col, ok := unreadColumn[recipient]
	if !ok {
		return errors.Errorf("unknown role %q", recipient)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fromDomainMessage(m)).Error; err != nil {
			return errors.Wrap(err, "create message")
		}
		at := m.CreatedAt.UTC()
		res := tx.Model(&ConversationModel{}).Where("id = ?", m.ConversationID).Updates(map[string]interface{}{
			"ultima_mensagem":      preview(m.Body),
			"ultima_mensagem_data": &at,
			col:                    gorm.Expr(col + " + 1"),
		})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update conversation preview")
		}
		if res.RowsAffected == 0 {
			return domain.ErrConversationNotFound
		}
		return nil
	})
}

func (r *GormConversationRepository) ResetUnread(ctx context.Context, conversationID string, role domain.Role) (bool, error) {
	col, ok := unreadColumn[role]
	if !ok {
		return false, errors.Errorf("unknown role %q", role)
	}
	res := r.db.WithContext(ctx).Model(&ConversationModel{}).
		Where("id = ? AND "+col+" > 0", conversationID).
		Update(col, 0)
	return res.RowsAffected > 0, errors.Wrap(res.Error, "reset unread")
}

func (r *GormConversationRepository) MessagesSince(ctx context.Context, conversationID string, since time.Time) ([]*domain.Message, error) {
	var models []MessageModel
	q := r.db.WithContext(ctx).Where("chat_id = ?", conversationID)
	if !since.IsZero() {
		q = q.Where("created_at > ?", since.UTC())
	}
	if err := q.Order("created_at").Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	out := make([]*domain.Message, len(models))
	for i := range models {
		out[i] = toDomainMessage(&models[i])
	}
	return out, nil
}

func preview(body string) string {
	r := []rune(body)
	if len(r) <= previewMaxRunes {
		return body
	}
	return string(r[:previewMaxRunes-1]) + "…"
}
