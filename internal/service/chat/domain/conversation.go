// internal/service/chat/domain/conversation.go
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Role is a participant's side of a conversation.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Other() Role {
	if r == RoleBuyer {
		return RoleSeller
	}
	return RoleBuyer
}

// Conversation is the thread between one buyer and the seller of one listing.
// There is at most one per (ListingID, BuyerEmail).
type Conversation struct {
	ID           string
	ListingID    string
	ListingTitle string

	BuyerEmail     string
	BuyerName      string
	BuyerPhotoURL  string
	SellerEmail    string
	SellerName     string
	SellerPhotoURL string

	LastMessage   string
	LastMessageAt *time.Time
	UnreadBuyer   int
	UnreadSeller  int

	CreatedAt time.Time
}

// RoleOf returns the side email is on, or "" for outsiders.
func (c *Conversation) RoleOf(email string) Role {
	switch {
	case email == "":
		return ""
	case strings.EqualFold(c.BuyerEmail, email):
		return RoleBuyer
	case strings.EqualFold(c.SellerEmail, email):
		return RoleSeller
	}
	return ""
}

func (c *Conversation) IsParticipant(email string) bool {
	return c.RoleOf(email) != ""
}

// Party is one participant's display data.
type Party struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Counterpart is the other participant as seen by email.
func (c *Conversation) Counterpart(email string) Party {
	if c.RoleOf(email) == RoleSeller {
		name := c.BuyerName
		if name == "" {
			name = "Comprador"
		}
		return Party{Email: c.BuyerEmail, Name: name, PhotoURL: c.BuyerPhotoURL}
	}
	name := c.SellerName
	if name == "" {
		name = "Vendedor"
	}
	return Party{Email: c.SellerEmail, Name: name, PhotoURL: c.SellerPhotoURL}
}

// UnreadFor is the unread count of email's side.
func (c *Conversation) UnreadFor(email string) int {
	switch c.RoleOf(email) {
	case RoleBuyer:
		return c.UnreadBuyer
	case RoleSeller:
		return c.UnreadSeller
	}
	return 0
}

// Matches is the conversation list search: listing title, counterpart name
// or last message, case-insensitive.
func (c *Conversation) Matches(viewer, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, s := range []string{c.ListingTitle, c.Counterpart(viewer).Name, c.LastMessage} {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// Message is immutable once stored.
type Message struct {
	ID             string
	ConversationID string
	SenderEmail    string
	Body           string
	CreatedAt      time.Time
}

const MaxMessageRunes = 2000

func NewMessage(id, conversationID, sender, body string, now time.Time) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > MaxMessageRunes {
		return nil, ErrMessageTooLong
	}
	return &Message{ID: id, ConversationID: conversationID, SenderEmail: sender, Body: body, CreatedAt: now}, nil
}
