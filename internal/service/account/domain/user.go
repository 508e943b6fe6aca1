// internal/service/account/domain/user.go
package domain

import (
	"strings"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
)

type UserType string

const (
	UserTypeResident UserType = "morador"
	UserTypeVisitor  UserType = "visitante"
	UserTypeAdmin    UserType = "administrador"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeResident, UserTypeVisitor, UserTypeAdmin:
		return true
	}
	return false
}

// Label is the Portuguese name shown to users.
func (t UserType) Label() string {
	switch t {
	case UserTypeResident:
		return "Morador"
	case UserTypeVisitor:
		return "Visitante"
	case UserTypeAdmin:
		return "Administrador"
	}
	return string(t)
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
)

// Condominium values accepted for residents.
const (
	CondominiumLagoaIngleses = "alphaville_lagoa_ingleses"
	CondominiumOther         = "outro"
)

// LagoaInglesesCondominiums lists the sub-condominiums of Alphaville Lagoa dos Ingleses.
var LagoaInglesesCondominiums = map[string]string{
	"real":           "Real",
	"flores":         "Flores",
	"arvores":        "Árvores",
	"passaros":       "Pássaros",
	"inconfidentes":  "Inconfidentes",
	"mirante":        "Mirante",
	"costa_laguna":   "Costa Laguna",
	"reserva_laguna": "Reserva Laguna",
	"felice":         "Felice",
	"lumiere":        "Lumiere",
	"aguas":          "Águas",
}

// User is a registered account. Email is the identity key used across the
// marketplace (listings, chats and referrals reference it).
type User struct {
	ID                string
	Email             string
	FullName          string
	Nickname          string
	Phone             string
	ProfilePictureURL string
	UserType          UserType
	ApprovalStatus    ApprovalStatus
	PaymentStatus     PaymentStatus
	ExpiresOn         *time.Time // visitors only; calendar day the paid access ends

	ResidenceProofURL string
	PaymentProofURL   string
	ExtractedName     string
	ExtractedAddress  string

	Address                  string
	CondominiumMain          string
	CondominiumLagoaIngleses string

	ReferralCodeUsed string
	ReferrerID       string

	WelcomeEmailSent        bool
	NewUserNotificationSent bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds the profile created on first sign-in.
func NewUser(id, email, name, picture string, now time.Time) *User {
	return &User{
		ID:                id,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		FullName:          strings.TrimSpace(name),
		ProfilePictureURL: picture,
		UserType:          UserTypeVisitor,
		ApprovalStatus:    ApprovalPending,
		PaymentStatus:     PaymentPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (u *User) IsAdmin() bool { return u.UserType == UserTypeAdmin }

// IsAccessExpired reports whether an approved visitor's paid period is over:
// the whole expiry day counts as valid, so it expires from the next day on.
func (u *User) IsAccessExpired(now time.Time) bool {
	if u.UserType != UserTypeVisitor || u.ApprovalStatus != ApprovalApproved || u.ExpiresOn == nil {
		return false
	}
	expiry := clock.DayIn(*u.ExpiresOn, now.Location())
	return clock.EndOfDay(expiry).Before(clock.StartOfDay(now))
}

// Expire revokes a visitor's access once the paid period ended.
func (u *User) Expire() {
	u.ApprovalStatus = ApprovalRejected
	u.PaymentStatus = PaymentExpired
}

func (u *User) NeedsProfileCompletion() bool {
	return strings.TrimSpace(u.Phone) == "" || strings.TrimSpace(u.Nickname) == ""
}

// FirstName is the first word of the full name, the fallback nickname.
func (u *User) FirstName() string {
	fields := strings.Fields(u.FullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// DisplayName prefers the nickname.
func (u *User) DisplayName() string {
	if n := strings.TrimSpace(u.Nickname); n != "" {
		return n
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// ApproveResident grants resident access without expiry.
func (u *User) ApproveResident() {
	u.UserType = UserTypeResident
	u.ApprovalStatus = ApprovalApproved
	u.ExpiresOn = nil
}

// ApproveVisitor grants paid visitor access until today+days.
func (u *User) ApproveVisitor(now time.Time, days int) {
	expiry := clock.Date(clock.AddDays(now, days))
	u.UserType = UserTypeVisitor
	u.ApprovalStatus = ApprovalApproved
	u.PaymentStatus = PaymentPaid
	u.ExpiresOn = &expiry
}

func (u *User) Reject() {
	u.ApprovalStatus = ApprovalRejected
}

// MarkPaid records a confirmed visitor payment. Admin approval still decides
// the access window.
func (u *User) MarkPaid() {
	u.PaymentStatus = PaymentPaid
}
