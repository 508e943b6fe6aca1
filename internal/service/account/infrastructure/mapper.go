// internal/service/account/infrastructure/mapper.go
package infrastructure

import "github.com/klausterra/alpha-se-1/internal/service/account/domain"

func ToDomainUser(m *UserModel) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:                       m.ID,
		Email:                    m.Email,
		FullName:                 m.FullName,
		Nickname:                 m.Nickname,
		Phone:                    m.Phone,
		ProfilePictureURL:        m.ProfilePictureURL,
		UserType:                 domain.UserType(m.UserType),
		ApprovalStatus:           domain.ApprovalStatus(m.ApprovalStatus),
		PaymentStatus:            domain.PaymentStatus(m.PaymentStatus),
		ExpiresOn:                m.ExpiresOn,
		ResidenceProofURL:        m.ResidenceProofURL,
		PaymentProofURL:          m.PaymentProofURL,
		ExtractedName:            m.ExtractedName,
		ExtractedAddress:         m.ExtractedAddress,
		Address:                  m.Address,
		CondominiumMain:          m.CondominiumMain,
		CondominiumLagoaIngleses: m.CondominiumLagoaIngleses,
		ReferralCodeUsed:         m.ReferralCodeUsed,
		ReferrerID:               m.ReferrerID,
		WelcomeEmailSent:         m.WelcomeEmailSent,
		NewUserNotificationSent:  m.NewUserNotificationSent,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

func FromDomainUser(u *domain.User) *UserModel {
	if u == nil {
		return nil
	}
	return &UserModel{
		ID:                       u.ID,
		Email:                    u.Email,
		FullName:                 u.FullName,
		Nickname:                 u.Nickname,
		Phone:                    u.Phone,
		ProfilePictureURL:        u.ProfilePictureURL,
		UserType:                 string(u.UserType),
		ApprovalStatus:           string(u.ApprovalStatus),
		PaymentStatus:            string(u.PaymentStatus),
		ExpiresOn:                u.ExpiresOn,
		ResidenceProofURL:        u.ResidenceProofURL,
		PaymentProofURL:          u.PaymentProofURL,
		ExtractedName:            u.ExtractedName,
		ExtractedAddress:         u.ExtractedAddress,
		Address:                  u.Address,
		CondominiumMain:          u.CondominiumMain,
		CondominiumLagoaIngleses: u.CondominiumLagoaIngleses,
		ReferralCodeUsed:         u.ReferralCodeUsed,
		ReferrerID:               u.ReferrerID,
		WelcomeEmailSent:         u.WelcomeEmailSent,
		NewUserNotificationSent:  u.NewUserNotificationSent,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}
