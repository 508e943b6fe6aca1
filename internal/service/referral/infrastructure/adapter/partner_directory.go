// internal/service/referral/infrastructure/adapter/partner_directory.go
package adapter

import (
	"context"

	"github.com/pkg/errors"

	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
)

// PartnerDirectory resolves referral codes for the account context. It reads
// the partner table directly so accounts can be built before the referral
// service, which itself depends on accounts.
type PartnerDirectory struct {
	repo domain.PartnerRepository
}

func NewPartnerDirectory(repo domain.PartnerRepository) *PartnerDirectory {
	return &PartnerDirectory{repo: repo}
}

// PartnerIDByCode returns "" when nobody owns code.
func (d *PartnerDirectory) PartnerIDByCode(ctx context.Context, code string) (string, error) {
	p, err := d.repo.FindByCode(ctx, code)
	if errors.Is(err, domain.ErrPartnerNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.ID, nil
}
