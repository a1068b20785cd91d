package ports

import (
	"time"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

// AuthClaims is the decoded view of a bearer token this service minted.
type AuthClaims struct {
	UserID    string
	Email     string
	Name      string
	FirstName string
	Surname   string
	Roles     []string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService mints and validates signed bearer tokens. Issue is a pure
// function of the user snapshot, the expiry policy and the signing secret:
// roles are captured at issuance time and not re-checked per request.
type TokenService interface {
	// Issue signs a token for the user. rememberMe selects the 30-day expiry
	// policy instead of the 8-hour session policy.
	Issue(user *domain.User, rememberMe bool) (string, error)
	// Validate parses and verifies signature, expiry, issuer and audience.
	Validate(tokenString string) (*AuthClaims, error)
}
