package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrLockedOut = errors.New("account locked out")
var ErrInvalidToken = errors.New("invalid or expired security token")
var ErrUpstreamAuth = errors.New("upstream identity provider rejected the request")

// User models a registered account. Accounts are never hard-deleted;
// IsDeleted marks them as retired while keeping the row for audit.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	NormalizedEmail string    `json:"-"`
	PasswordHash    string    `json:"-"`
	EmailConfirmed  bool      `json:"email_confirmed"`
	LockoutEnabled  bool      `json:"-"`
	LockoutEnd      time.Time `json:"-"`
	FailedAttempts  int       `json:"-"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Roles           []string  `json:"roles"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	IsDeleted       bool      `json:"-"`
}

// NormalizeEmail canonicalizes an email for uniqueness comparisons,
// independent of the casing the user typed.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

// IsLockedOut reports whether the account is locked at the given instant.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd.After(now)
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
