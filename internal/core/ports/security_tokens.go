package ports

import (
	"context"
	"time"
)

// TokenPurpose namespaces one-time security tokens by flow.
type TokenPurpose string

const (
	PurposeEmailConfirmation TokenPurpose = "confirm"
	PurposePasswordReset     TokenPurpose = "reset"
)

// SecurityTokenStore holds single-use, time-boxed tokens for email
// confirmation and password reset. Consume must atomically verify and
// invalidate: a second consume of the same token fails.
type SecurityTokenStore interface {
	Save(ctx context.Context, purpose TokenPurpose, userID, token string, ttl time.Duration) error
	Consume(ctx context.Context, purpose TokenPurpose, userID, token string) error
}

// TokenDenylist records revoked bearer token IDs until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
