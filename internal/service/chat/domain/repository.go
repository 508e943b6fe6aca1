// internal/service/chat/domain/repository.go
package domain

import (
	"context"
	"time"
)

type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*Conversation, error)
	// FindByListingAndBuyer returns ErrConversationNotFound when none exists.
	FindByListingAndBuyer(ctx context.Context, listingID, buyerEmail string) (*Conversation, error)
	// Create returns ErrDuplicateConversation when (listing, buyer) is taken.
	Create(ctx context.Context, c *Conversation) error
	// ListForUser returns the conversations email takes part in, most recent activity first.
	ListForUser(ctx context.Context, email string) ([]*Conversation, error)
	// Delete removes the conversation and all its messages.
	Delete(ctx context.Context, id string) error

	// RecordMessage stores m, updates the preview and increments the unread
	// counter of recipient in one transaction.
	RecordMessage(ctx context.Context, m *Message, recipient Role) error
	// ResetUnread zeroes role's counter; it reports whether it was non-zero.
	ResetUnread(ctx context.Context, conversationID string, role Role) (bool, error)
	// MessagesSince returns messages created strictly after since, oldest first.
	MessagesSince(ctx context.Context, conversationID string, since time.Time) ([]*Message, error)
}
