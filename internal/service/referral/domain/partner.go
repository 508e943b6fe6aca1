// internal/service/referral/domain/partner.go
package domain

import (
	"crypto/rand"
	"math"
	"math/big"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultVisitorFee     = 9.90
	DefaultCommissionRate = 0.10
	CodeLength            = 6
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Partner is a referral partner ("influencer") paid a share of every
// visitor fee collected from users who signed up with their code.
type Partner struct {
	ID          string
	Name        string
	Email       string
	Code        string
	Accumulated float64
	Paid        float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Link is the personalized sign-up link.
func (p *Partner) Link(publicBaseURL string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/Cadastro?ref=" + p.Code
}

// Pending is what is still owed, never negative.
func (p *Partner) Pending() float64 {
	return math.Max(0, RoundCents(p.Accumulated-p.Paid))
}

// Normalize trims the fields, lowercases the e-mail, upper-cases the code
// and generates one when it is blank.
func (p *Partner) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Code = NormalizeCode(p.Code)
	if p.Code == "" {
		code, err := NewCode()
		if err != nil {
			return err
		}
		p.Code = code
	}
	return nil
}

func (p *Partner) Validate() error {
	switch {
	case p.Name == "":
		return &ValidationError{Field: "nome", Message: MsgNameRequired}
	case p.Email == "" || !strings.Contains(p.Email, "@"):
		return &ValidationError{Field: "email", Message: MsgEmailInvalid}
	case !codePattern.MatchString(p.Code):
		return &ValidationError{Field: "codigo_indicacao", Message: MsgCodeInvalid}
	}
	return nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCode returns CodeLength random upper-case alphanumerics.
func NewCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Commission is fee × rate rounded to cents.
func Commission(fee, rate float64) float64 {
	return RoundCents(fee * rate)
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
