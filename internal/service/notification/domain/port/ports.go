// internal/service/notification/domain/port/ports.go
package port

import (
	"context"
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
)

// JobQueue hands e-mail jobs to the delivery worker.
type JobQueue interface {
	Enqueue(ctx context.Context, job domain.EmailJob) error
}

// RateLimiter bounds anonymous contact-form submissions.
type RateLimiter interface {
	AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}
