// internal/service/account/domain/profile.go
package domain

import "strings"

// ProfileUpdate is the self-service edit of a user's own profile.
type ProfileUpdate struct {
	FullName                 string
	Nickname                 string
	Phone                    string
	UserType                 UserType
	Address                  string
	CondominiumMain          string
	CondominiumLagoaIngleses string
	ProfilePictureURL        string
	ResidenceProofURL        string
	PaymentProofURL          string
}

// Validate applies the profile form rules in order, returning the first failure.
func (p *ProfileUpdate) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return invalid("full_name", "Nome completo é obrigatório.")
	}
	if strings.TrimSpace(p.Nickname) == "" {
		return invalid("nickname", "Apelido é obrigatório.")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return invalid("phone", "Telefone é obrigatório.")
	}
	if p.UserType == "" {
		return invalid("user_type", "Tipo de usuário é obrigatório.")
	}
	if p.UserType != UserTypeResident && p.UserType != UserTypeVisitor {
		return invalid("user_type", "Tipo de usuário inválido.")
	}
	if p.UserType == UserTypeResident {
		if strings.TrimSpace(p.Address) == "" {
			return invalid("address", "Endereço completo é obrigatório para moradores.")
		}
		if p.CondominiumMain == "" ||
			(p.CondominiumMain == CondominiumLagoaIngleses && p.CondominiumLagoaIngleses == "") {
			return invalid("condominio_principal", "Informações do condomínio são obrigatórias para moradores.")
		}
		if p.CondominiumMain == CondominiumLagoaIngleses {
			if _, ok := LagoaInglesesCondominiums[p.CondominiumLagoaIngleses]; !ok {
				return invalid("condominio_lagoa_ingleses", "Informações do condomínio são obrigatórias para moradores.")
			}
		}
	}
	return nil
}

// Apply copies a validated update onto u. Administrators keep their type;
// empty optional URLs leave the stored value untouched.
func (u *User) Apply(p ProfileUpdate) {
	u.FullName = strings.TrimSpace(p.FullName)
	u.Nickname = strings.TrimSpace(p.Nickname)
	u.Phone = strings.TrimSpace(p.Phone)
	if !u.IsAdmin() {
		u.UserType = p.UserType
	}
	u.Address = strings.TrimSpace(p.Address)
	u.CondominiumMain = p.CondominiumMain
	u.CondominiumLagoaIngleses = p.CondominiumLagoaIngleses
	if u.CondominiumMain != CondominiumLagoaIngleses {
		u.CondominiumLagoaIngleses = ""
	}
	if p.ProfilePictureURL != "" {
		u.ProfilePictureURL = p.ProfilePictureURL
	}
	if p.ResidenceProofURL != "" {
		u.ResidenceProofURL = p.ResidenceProofURL
	}
	if p.PaymentProofURL != "" {
		u.PaymentProofURL = p.PaymentProofURL
	}
}
