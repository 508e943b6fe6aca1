// internal/service/admin/application/dto.go
package application

import (
	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	"github.com/klausterra/alpha-se-1/internal/service/admin/domain"
	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
)

type Stats struct {
	TotalUsers     int64 `json:"total_usuarios"`
	PendingUsers   int64 `json:"usuarios_pendentes"`
	TotalListings  int64 `json:"total_anuncios"`
	ActiveListings int64 `json:"anuncios_ativos"`
}

// Board is everything the admin console shows.
type Board struct {
	Users    []accountapp.UserDTO    `json:"usuarios"`
	Listings []listingapp.ListingDTO `json:"anuncios"`
	Stats    Stats                   `json:"estatisticas"`
}

type ActionRequest struct {
	Target string `json:"alvo"`
	ID     string `json:"id"`
	Action string `json:"acao"`
	Value  *bool  `json:"valor,omitempty"`
}

func (r ActionRequest) toCommand() domain.Command {
	return domain.Command{
		Target: domain.Target(r.Target),
		ID:     r.ID,
		Action: domain.Action(r.Action),
		Value:  r.Value,
	}
}

// ActionResult reports the applied action and the reloaded board. A failed
// reload leaves Board nil and explains why in ReloadError.
type ActionResult struct {
	Applied     bool   `json:"aplicado"`
	Board       *Board `json:"painel,omitempty"`
	ReloadError string `json:"erro_recarregar,omitempty"`
}
