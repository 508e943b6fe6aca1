// internal/service/notification/domain/email.go
package domain

import "time"

// EmailJob is one queued e-mail on the notifications topic.
type EmailJob struct {
	JobID     string    `json:"job_id"`
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	FromEmail string    `json:"from_email,omitempty"`
	FromName  string    `json:"from_name,omitempty"`
	QueuedAt  time.Time `json:"queued_at"`
}

const (
	KindWelcome     = "welcome"
	KindSignup      = "signup_notice"
	KindChatMessage = "chat_message"
	KindContact     = "contact"
)
