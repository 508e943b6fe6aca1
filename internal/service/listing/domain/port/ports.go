// internal/service/listing/domain/port/ports.go
package port

import (
	"context"
	"io"
	"time"

	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

// VisibilityPolicy decides whether a listing is shown to people other than
// its owner and the administrators.
type VisibilityPolicy interface {
	Visible(l *domain.Listing, today time.Time) (bool, error)
}

// FileStore uploads images and proofs, returning a public URL.
type FileStore interface {
	UploadFile(ctx context.Context, filename string, file io.Reader) (string, error)
}
