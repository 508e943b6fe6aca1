// internal/service/notification/domain/repository.go
package domain

import "context"

type TemplateRepository interface {
	FindByID(ctx context.Context, id string) (*EmailTemplate, error)
	FindByName(ctx context.Context, name string) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
	Create(ctx context.Context, t *EmailTemplate) error
	Save(ctx context.Context, t *EmailTemplate) error
	Delete(ctx context.Context, id string) error
}
