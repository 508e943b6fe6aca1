// internal/service/account/domain/status.go
package domain

const (
	StatusLabelReview   = "Em Análise"
	StatusLabelActive   = "Ativo"
	StatusLabelInactive = "Inativo"
)

// AccountStatus is the badge shown for an account.
type AccountStatus struct {
	Label   string `json:"label"`
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

// DeriveAccountStatus is the only place the approval/payment/type combination
// is turned into a user-facing status. Visitors need both approval and a
// payment to be active; everyone else only needs approval.
func DeriveAccountStatus(approval ApprovalStatus, payment PaymentStatus, userType UserType) AccountStatus {
	label := statusLabel(approval, payment, userType)
	return AccountStatus{
		Label:   label,
		Color:   statusColor(label),
		Tooltip: statusTooltip(label, payment, userType),
	}
}

func (u *User) AccountStatus() AccountStatus {
	return DeriveAccountStatus(u.ApprovalStatus, u.PaymentStatus, u.UserType)
}

func statusLabel(approval ApprovalStatus, payment PaymentStatus, userType UserType) string {
	if userType == UserTypeVisitor {
		switch {
		case approval == ApprovalApproved && payment == PaymentPaid:
			return StatusLabelActive
		case approval == ApprovalApproved && payment == PaymentExpired:
			return StatusLabelInactive
		case approval == ApprovalApproved && payment == PaymentPending:
			return StatusLabelReview
		case approval == ApprovalPending:
			return StatusLabelReview
		case approval == ApprovalRejected:
			return StatusLabelInactive
		}
	}
	switch approval {
	case ApprovalApproved:
		return StatusLabelActive
	case ApprovalRejected:
		return StatusLabelInactive
	}
	return StatusLabelReview
}

func statusColor(label string) string {
	switch label {
	case StatusLabelActive:
		return "green"
	case StatusLabelInactive:
		return "red"
	case StatusLabelReview:
		return "yellow"
	}
	return "gray"
}

func statusTooltip(label string, payment PaymentStatus, userType UserType) string {
	switch label {
	case StatusLabelInactive:
		if userType == UserTypeVisitor && payment == PaymentExpired {
			return "Sua conta de visitante está inativa pois o período de acesso pago expirou. Para reativar, realize um novo pagamento."
		}
		return "Sua conta está inativa. Isso pode ser devido a uma reprovação de cadastro ou expiração de acesso. Entre em contato com o suporte se necessário."
	case StatusLabelReview:
		switch userType {
		case UserTypeResident:
			return "Sua conta está aguardando a aprovação dos administradores. Certifique-se de ter enviado o comprovante de residência."
		case UserTypeVisitor:
			if payment == PaymentPending {
				return "Sua conta de visitante está em análise aguardando a confirmação do pagamento ou o envio do comprovante."
			}
			return "Sua conta de visitante está em análise aguardando a aprovação dos administradores."
		}
	case StatusLabelActive:
		return "Sua conta está ativa e aprovada para usar a plataforma. Você tem acesso total aos recursos."
	}
	return "Este é o status geral da sua conta na plataforma. Reflete a sua permissão de acesso e aprovação."
}
