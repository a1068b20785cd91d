package ports

import (
	"context"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
// Create must rely on a storage-level unique constraint over the normalized
// email; the application-level existence pre-check is an optimization only.
type UserRepository interface {
	FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
