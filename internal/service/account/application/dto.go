// internal/service/account/application/dto.go
package application

import (
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
)

// UserDTO is the JSON shape of a profile, field names as the web client uses them.
type UserDTO struct {
	ID                       string               `json:"id"`
	Email                    string               `json:"email"`
	FullName                 string               `json:"full_name"`
	Nickname                 string               `json:"nickname"`
	Phone                    string               `json:"phone"`
	ProfilePictureURL        string               `json:"profile_picture_url,omitempty"`
	UserType                 string               `json:"user_type"`
	UserTypeLabel            string               `json:"user_type_label"`
	ApprovalStatus           string               `json:"approval_status"`
	PaymentStatus            string               `json:"payment_status"`
	ExpiresOn                string               `json:"data_expiracao,omitempty"`
	ResidenceProofURL        string               `json:"residence_proof_url,omitempty"`
	PaymentProofURL          string               `json:"payment_proof_url,omitempty"`
	ExtractedName            string               `json:"extracted_name,omitempty"`
	ExtractedAddress         string               `json:"extracted_address,omitempty"`
	Address                  string               `json:"address,omitempty"`
	CondominiumMain          string               `json:"condominio_principal,omitempty"`
	CondominiumLagoaIngleses string               `json:"condominio_lagoa_ingleses,omitempty"`
	ReferralCodeUsed         string               `json:"codigo_indicacao_usado,omitempty"`
	ReferrerID               string               `json:"influencer_id,omitempty"`
	Status                   domain.AccountStatus `json:"status"`
	NeedsProfileCompletion   bool                 `json:"needs_profile_completion"`
	CreatedDate              time.Time            `json:"created_date"`
}

func ToUserDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		ID:                       u.ID,
		Email:                    u.Email,
		FullName:                 u.FullName,
		Nickname:                 u.Nickname,
		Phone:                    u.Phone,
		ProfilePictureURL:        u.ProfilePictureURL,
		UserType:                 string(u.UserType),
		UserTypeLabel:            u.UserType.Label(),
		ApprovalStatus:           string(u.ApprovalStatus),
		PaymentStatus:            string(u.PaymentStatus),
		ResidenceProofURL:        u.ResidenceProofURL,
		PaymentProofURL:          u.PaymentProofURL,
		ExtractedName:            u.ExtractedName,
		ExtractedAddress:         u.ExtractedAddress,
		Address:                  u.Address,
		CondominiumMain:          u.CondominiumMain,
		CondominiumLagoaIngleses: u.CondominiumLagoaIngleses,
		ReferralCodeUsed:         u.ReferralCodeUsed,
		ReferrerID:               u.ReferrerID,
		Status:                   u.AccountStatus(),
		NeedsProfileCompletion:   u.NeedsProfileCompletion(),
		CreatedDate:              u.CreatedAt,
	}
	if u.ExpiresOn != nil {
		dto.ExpiresOn = u.ExpiresOn.Format("2006-01-02")
	}
	return dto
}

func ToUserDTOs(users []*domain.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// UpdateProfileRequest is the body of PUT /api/me.
type UpdateProfileRequest struct {
	FullName                 string `json:"full_name"`
	Nickname                 string `json:"nickname"`
	Phone                    string `json:"phone"`
	UserType                 string `json:"user_type"`
	Address                  string `json:"address"`
	CondominiumMain          string `json:"condominio_principal"`
	CondominiumLagoaIngleses string `json:"condominio_lagoa_ingleses"`
	ProfilePictureURL        string `json:"profile_picture_url"`
	ResidenceProofURL        string `json:"residence_proof_url"`
	PaymentProofURL          string `json:"payment_proof_url"`
}

func (r UpdateProfileRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FullName:                 r.FullName,
		Nickname:                 r.Nickname,
		Phone:                    r.Phone,
		UserType:                 domain.UserType(r.UserType),
		Address:                  r.Address,
		CondominiumMain:          r.CondominiumMain,
		CondominiumLagoaIngleses: r.CondominiumLagoaIngleses,
		ProfilePictureURL:        r.ProfilePictureURL,
		ResidenceProofURL:        r.ResidenceProofURL,
		PaymentProofURL:          r.PaymentProofURL,
	}
}

// AdminUpdateUserRequest is an administrator's direct edit of an account.
// Nil fields are left unchanged.
type AdminUpdateUserRequest struct {
	FullName       *string `json:"full_name"`
	Nickname       *string `json:"nickname"`
	Phone          *string `json:"phone"`
	UserType       *string `json:"user_type"`
	ApprovalStatus *string `json:"approval_status"`
	PaymentStatus  *string `json:"payment_status"`
	ExpiresOn      *string `json:"data_expiracao"` // YYYY-MM-DD, "" clears
}
