package service

import (
	"testing"
	"time"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:        "user-1",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Roles:     []string{domain.RoleUser},
	}
}

func TestTokenService_SessionExpiry(t *testing.T) {
	svc := NewTokenService([]byte("secret"), "expenspend", "expenspend-clients")

	signed, err := svc.Issue(testUser(), false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	want := time.Now().Add(8 * time.Hour)
	if d := claims.ExpiresAt.Sub(want); d < -time.Second || d > time.Second {
		t.Fatalf("session expiry off by %v", d)
	}
}

func TestTokenService_RememberMeExpiry(t *testing.T) {
	svc := NewTokenService([]byte("secret"), "expenspend", "expenspend-clients")

	signed, err := svc.Issue(testUser(), true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	want := time.Now().Add(30 * 24 * time.Hour)
	if d := claims.ExpiresAt.Sub(want); d < -time.Second || d > time.Second {
		t.Fatalf("remember-me expiry off by %v", d)
	}
}

func TestTokenService_FreshTokenID(t *testing.T) {
	svc := NewTokenService([]byte("secret"), "expenspend", "expenspend-clients")
	user := testUser()

	// Two tokens minted back to back must still be distinguishable.
	first, err := svc.Issue(user, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, err := svc.Issue(user, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c1, err := svc.Validate(first)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	c2, err := svc.Validate(second)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if c1.TokenID == "" || c1.TokenID == c2.TokenID {
		t.Fatalf("expected distinct token ids, got %q and %q", c1.TokenID, c2.TokenID)
	}
}

func TestTokenService_ClaimsSnapshot(t *testing.T) {
	svc := NewTokenService([]byte("secret"), "expenspend", "expenspend-clients")
	user := testUser()
	user.Roles = []string{domain.RoleUser, domain.RoleAdmin}

	signed, err := svc.Issue(user, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("subject: got %q", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email: got %q", claims.Email)
	}
	if claims.FirstName != "Alice" || claims.Surname != "Smith" {
		t.Errorf("name claims: got %q %q", claims.FirstName, claims.Surname)
	}
	if len(claims.Roles) != 2 {
		t.Errorf("roles: got %v", claims.Roles)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret"), "expenspend", "expenspend-clients")
	verifier := NewTokenService([]byte("other"), "expenspend", "expenspend-clients")

	signed, err := issuer.Issue(testUser(), false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Validate(signed); err == nil {
		t.Fatal("expected validation failure for wrong secret")
	}
}

func TestTokenService_RejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenService([]byte("secret"), "someone-else", "expenspend-clients")
	verifier := NewTokenService([]byte("secret"), "expenspend", "expenspend-clients")

	signed, err := issuer.Issue(testUser(), false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Validate(signed); err == nil {
		t.Fatal("expected validation failure for wrong issuer")
	}
}
