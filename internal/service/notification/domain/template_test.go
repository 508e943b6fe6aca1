package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderFillsPlaceholders(t *testing.T) {
	tpl := &EmailTemplate{
		Subject:  "Olá {{nome}}",
		HTMLBody: "<h1>{{nome}}</h1><p>{{user_type}}</p>{{nome}}",
	}
	subject, body := tpl.Render("Ana & Bia", "Moradores")
	if subject != "Olá Ana & Bia" {
		t.Fatalf("subject = %q", subject)
	}
	if body != "<h1>Ana &amp; Bia</h1><p>Moradores</p>Ana &amp; Bia" {
		t.Fatalf("body = %q", body)
	}
}

func TestDefaultWelcome(t *testing.T) {
	tpl := DefaultWelcome("t1", time.Now())
	if tpl.Name != WelcomeTemplate || !tpl.Active {
		t.Fatalf("default = %+v", tpl)
	}
	for _, ph := range []string{PlaceholderName, PlaceholderUserType} {
		if !strings.Contains(tpl.HTMLBody, ph) {
			t.Fatalf("default body lacks %s", ph)
		}
	}
}

func TestValidateTemplate(t *testing.T) {
	cases := []struct {
		tpl   EmailTemplate
		field string
	}{
		{EmailTemplate{Subject: "s", HTMLBody: "b"}, "nome"},
		{EmailTemplate{Name: "x", HTMLBody: "b"}, "assunto"},
		{EmailTemplate{Name: "x", Subject: "s", HTMLBody: "  "}, "conteudo_html"},
		{EmailTemplate{Name: " x ", Subject: "s", HTMLBody: "b"}, ""},
	}
	for _, c := range cases {
		err := c.tpl.Validate()
		if c.field == "" {
			if err != nil || c.tpl.Name != "x" {
				t.Fatalf("valid template: %v %q", err, c.tpl.Name)
			}
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != c.field {
			t.Fatalf("%+v: err = %v, want field %s", c.tpl, err, c.field)
		}
	}
}

func TestContactMessage(t *testing.T) {
	c := ContactMessage{Name: " Ana ", Email: "ANA@X.COM", Message: "linha 1\n<b>linha 2</b>"}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Subject() != "Nova Mensagem de Contato: Ana" {
		t.Fatalf("subject = %q", c.Subject())
	}
	body := c.HTMLBody()
	if !strings.Contains(body, "linha 1<br/>&lt;b&gt;linha 2&lt;/b&gt;") || !strings.Contains(body, "ana@x.com") {
		t.Fatalf("body = %q", body)
	}

	bad := ContactMessage{Name: "Ana", Email: "nope", Message: "oi"}
	var ve *ValidationError
	if err := bad.Validate(); !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("bad email err = %v", err)
	}
}
