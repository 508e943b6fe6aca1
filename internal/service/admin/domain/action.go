// internal/service/admin/domain/action.go
package domain

import "github.com/pkg/errors"

// Target is the kind of record a moderation action applies to.
type Target string

const (
	TargetUser    Target = "usuario"
	TargetListing Target = "anuncio"
)

// Action is the keyword sent by the admin console.
type Action string

const (
	ActionApproveResident  Action = "approve_morador"
	ActionApproveVisitor3  Action = "approve_visitante_3"
	ActionApproveVisitor30 Action = "approve_visitante_30"
	ActionReject           Action = "reject"
	ActionApprove          Action = "approve"
	ActionHighlight        Action = "highlight"
	ActionDelete           Action = "delete"
)

var (
	ErrUnknownTarget = errors.New("Tipo de registro desconhecido.")
	ErrUnknownAction = errors.New("Ação desconhecida.")
	ErrMissingID     = errors.New("Informe o registro a moderar.")
)

// Command is one moderation request. Value is only read by highlight and
// defaults to true.
type Command struct {
	Target Target
	ID     string
	Action Action
	Value  *bool
}

func (c Command) Validate() error {
	if c.Target != TargetUser && c.Target != TargetListing {
		return ErrUnknownTarget
	}
	if c.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Highlighted is the featured flag a highlight command asks for.
func (c Command) Highlighted() bool {
	return c.Value == nil || *c.Value
}
