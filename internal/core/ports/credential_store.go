package ports

import (
	"context"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

// SignInResult reports the outcome of a password sign-in attempt.
// Exactly one of the fields is meaningful: Succeeded wins, then LockedOut,
// then NotAllowed (unconfirmed email or other account-level restriction).
type SignInResult struct {
	Succeeded  bool
	NotAllowed bool
	LockedOut  bool
}

// CredentialStore is the identity/membership collaborator: it owns password
// hashing, lockout accounting, role assignment, and one-time security tokens.
type CredentialStore interface {
	FindByNormalizedEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// Create validates the password against the local policy, hashes it and
	// persists the user. Policy failures come back as domain.ValidationErrors
	// in rule order; a uniqueness race surfaces as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User, password string) (*domain.User, error)

	CheckPassword(ctx context.Context, user *domain.User, password string) bool
	SignInWithPassword(ctx context.Context, user *domain.User, password string, persistent bool) (SignInResult, error)

	GenerateEmailConfirmationToken(ctx context.Context, user *domain.User) (string, error)
	ConfirmEmail(ctx context.Context, user *domain.User, token string) error
	GeneratePasswordResetToken(ctx context.Context, user *domain.User) (string, error)
	ResetPassword(ctx context.Context, user *domain.User, token, newPassword string) error

	GetRoles(ctx context.Context, user *domain.User) ([]string, error)
	AddToRole(ctx context.Context, user *domain.User, role string) error
}
