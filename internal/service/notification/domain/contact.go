// internal/service/notification/domain/contact.go
package domain

import (
	"fmt"
	"html"
	"strings"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

func (c *ContactMessage) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Message = strings.TrimSpace(c.Message)
	switch {
	case c.Name == "":
		return &ValidationError{Field: "name", Message: MsgContactName}
	case c.Email == "" || !strings.Contains(c.Email, "@"):
		return &ValidationError{Field: "email", Message: MsgContactEmail}
	case c.Message == "":
		return &ValidationError{Field: "message", Message: MsgContactMessage}
	}
	return nil
}

func (c *ContactMessage) Subject() string {
	return "Nova Mensagem de Contato: " + c.Name
}

func (c *ContactMessage) HTMLBody() string {
	msg := strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br/>")
	return fmt.Sprintf("Você recebeu uma nova mensagem do formulário de contato do site Alpha-se.<br/><br/>"+
		"<b>Nome:</b> %s<br/><b>Email:</b> %s<br/><b>Mensagem:</b><br/><p>%s</p>",
		html.EscapeString(c.Name), html.EscapeString(c.Email), msg)
}

// SignupNoticeBody is the admin e-mail sent when someone registers.
func SignupNoticeBody(name, email string) string {
	return fmt.Sprintf("Um novo usuário se cadastrou na plataforma Alpha-se.<br/><br/>"+
		"Nome: %s<br/>Email: %s<br/><br/>"+
		"Por favor, acesse o painel de administração para revisar e aprovar o cadastro.",
		html.EscapeString(name), html.EscapeString(email))
}

const SignupNoticeSubject = "Novo Usuário Cadastrado - Alpha-se"
