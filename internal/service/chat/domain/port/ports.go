// internal/service/chat/domain/port/ports.go
package port

import (
	"context"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/session"
)

// ListingRef is what a conversation copies from its listing.
type ListingRef struct {
	ID            string
	Title         string
	OwnerEmail    string
	OwnerName     string
	OwnerPhotoURL string
}

// ListingLookup resolves a listing as seen by viewer; listings the viewer
// may not see are reported as not found.
type ListingLookup interface {
	ListingForChat(ctx context.Context, viewer *session.Principal, listingID string) (ListingRef, error)
}

// MessageEvent is published for every stored message.
type MessageEvent struct {
	EventID        string    `json:"event_id"`
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	SenderEmail    string    `json:"sender_email"`
	SenderName     string    `json:"sender_name"`
	RecipientEmail string    `json:"recipient_email"`
	ListingTitle   string    `json:"listing_title"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type EventPublisher interface {
	PublishMessage(ctx context.Context, ev MessageEvent) error
}

// Mailer queues a plain notification e-mail.
type Mailer interface {
	Notify(ctx context.Context, to, subject, htmlBody string) error
}

// RateLimiter bounds how fast one sender may post.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
