package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
)

const (
	sessionTokenTTL  = 8 * time.Hour
	rememberTokenTTL = 30 * 24 * time.Hour
)

// tokenClaims is the wire shape of the bearer tokens this service signs.
type tokenClaims struct {
	jwt.RegisteredClaims
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	Surname   string   `json:"surname"`
	Roles     []string `json:"roles,omitempty"`
}

// TokenService mints and validates HS256 bearer tokens. Anyone holding the
// secret can forge tokens; secret confidentiality is a trust boundary, not
// something enforced here.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

func NewTokenService(secret []byte, issuer, audience string) *TokenService {
	return &TokenService{secret: secret, issuer: issuer, audience: audience}
}

// Issue signs a token for the user. Claims are a point-in-time snapshot of
// the account, including its current roles. Every token gets a fresh jti so
// two tokens minted in the same instant remain distinguishable.
func (s *TokenService) Issue(user *domain.User, rememberMe bool) (string, error) {
	ttl := sessionTokenTTL
	if rememberMe {
		ttl = rememberTokenTTL
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Name:      user.Email,
		Email:     user.Email,
		FirstName: user.FirstName,
		Surname:   user.LastName,
		Roles:     user.Roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token string and verifies signature, expiry, issuer and
// audience. The signing method is pinned to HMAC.
func (s *TokenService) Validate(tokenString string) (*ports.AuthClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("validate token: %w", err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &ports.AuthClaims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		FirstName: claims.FirstName,
		Surname:   claims.Surname,
		Roles:     claims.Roles,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}
