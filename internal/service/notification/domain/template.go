// internal/service/notification/domain/template.go
package domain

import (
	_ "embed"
	"html"
	"strings"
	"time"
)

// WelcomeTemplate is the template picked for the first sign-in e-mail.
const WelcomeTemplate = "boas_vindas"

const (
	PlaceholderName     = "{{nome}}"
	PlaceholderUserType = "{{user_type}}"
)

//go:embed welcome.html
var defaultWelcomeHTML string

// EmailTemplate is an admin-editable HTML e-mail.
type EmailTemplate struct {
	ID          string
	Name        string
	Subject     string
	Description string
	HTMLBody    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultWelcome is seeded when no welcome template exists.
func DefaultWelcome(id string, now time.Time) *EmailTemplate {
	return &EmailTemplate{
		ID:          id,
		Name:        WelcomeTemplate,
		Subject:     "🏠 Bem-vindo ao Alpha-se - Sua nova comunidade digital!",
		Description: "Email automático de boas-vindas para novos usuários",
		HTMLBody:    defaultWelcomeHTML,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Render fills the placeholders. Values are escaped in the body only.
func (t *EmailTemplate) Render(name, userType string) (subject, body string) {
	subject = strings.NewReplacer(PlaceholderName, name, PlaceholderUserType, userType).Replace(t.Subject)
	body = strings.NewReplacer(
		PlaceholderName, html.EscapeString(name),
		PlaceholderUserType, html.EscapeString(userType),
	).Replace(t.HTMLBody)
	return subject, body
}

func (t *EmailTemplate) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	t.Subject = strings.TrimSpace(t.Subject)
	if t.Name == "" || t.Subject == "" || strings.TrimSpace(t.HTMLBody) == "" {
		field := "conteudo_html"
		switch {
		case t.Name == "":
			field = "nome"
		case t.Subject == "":
			field = "assunto"
		}
		return &ValidationError{Field: field, Message: MsgRequiredFields}
	}
	return nil
}

// UserTypeLabel is the audience wording used by {{user_type}}.
func UserTypeLabel(userType string) string {
	switch userType {
	case "morador":
		return "Moradores"
	case "administrador":
		return "Administradores"
	default:
		return "Visitantes"
	}
}
