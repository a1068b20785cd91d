package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
)

const (
	maxFailedAttempts = 5
	lockoutWindow     = 15 * time.Minute

	confirmationTokenTTL = 48 * time.Hour
	resetTokenTTL        = time.Hour

	minPasswordLength = 8
)

// CredentialStore is the local identity/membership implementation: bcrypt
// password hashing, lockout accounting, role assignment, and single-use
// security tokens held in the token store.
type CredentialStore struct {
	users  ports.UserRepository
	tokens ports.SecurityTokenStore
	log    zerolog.Logger
}

func NewCredentialStore(users ports.UserRepository, tokens ports.SecurityTokenStore, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{users: users, tokens: tokens, log: log}
}

func (s *CredentialStore) FindByNormalizedEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByNormalizedEmail(ctx, domain.NormalizeEmail(email))
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create validates the password policy, hashes the password and persists the
// user. The repository's unique index on normalized_email is the authoritative
// duplicate guard; a race surfaces here as domain.ErrUserExists.
func (s *CredentialStore) Create(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if verrs := validatePassword(password); len(verrs) > 0 {
		return nil, verrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.NormalizedEmail = domain.NormalizeEmail(user.Email)
	user.PasswordHash = string(hash)
	user.LockoutEnabled = true
	user.CreatedAt = now
	user.UpdatedAt = now
	if len(user.Roles) == 0 {
		user.Roles = []string{domain.RoleUser}
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user account created")
	return created, nil
}

// CheckPassword compares the candidate password against the stored hash
// without touching lockout counters.
func (s *CredentialStore) CheckPassword(_ context.Context, user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// SignInWithPassword runs the full sign-in check: lockout first, then the
// password (failures count toward lockout), then account-level restrictions.
func (s *CredentialStore) SignInWithPassword(ctx context.Context, user *domain.User, password string, _ bool) (ports.SignInResult, error) {
	now := time.Now().UTC()

	if user.IsLockedOut(now) {
		return ports.SignInResult{NotAllowed: true, LockedOut: true}, nil
	}

	if !s.CheckPassword(ctx, user, password) {
		user.FailedAttempts++
		if user.LockoutEnabled && user.FailedAttempts >= maxFailedAttempts {
			user.LockoutEnd = now.Add(lockoutWindow)
			user.FailedAttempts = 0
			s.log.Warn().Str("user_id", user.ID).Msg("account locked after repeated failures")
		}
		if err := s.users.Update(ctx, user); err != nil {
			return ports.SignInResult{}, fmt.Errorf("record failed attempt: %w", err)
		}
		return ports.SignInResult{NotAllowed: true}, nil
	}

	if !user.EmailConfirmed {
		return ports.SignInResult{NotAllowed: true}, nil
	}

	if user.FailedAttempts > 0 {
		user.FailedAttempts = 0
		if err := s.users.Update(ctx, user); err != nil {
			return ports.SignInResult{}, fmt.Errorf("reset failed attempts: %w", err)
		}
	}

	return ports.SignInResult{Succeeded: true}, nil
}

func (s *CredentialStore) GenerateEmailConfirmationToken(ctx context.Context, user *domain.User) (string, error) {
	return s.issueToken(ctx, ports.PurposeEmailConfirmation, user.ID, confirmationTokenTTL)
}

func (s *CredentialStore) ConfirmEmail(ctx context.Context, user *domain.User, token string) error {
	if err := s.tokens.Consume(ctx, ports.PurposeEmailConfirmation, user.ID, token); err != nil {
		return err
	}
	user.EmailConfirmed = true
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *CredentialStore) GeneratePasswordResetToken(ctx context.Context, user *domain.User) (string, error) {
	return s.issueToken(ctx, ports.PurposePasswordReset, user.ID, resetTokenTTL)
}

// ResetPassword consumes the reset token and applies the new password under
// the same policy as registration. A successful reset clears any lockout.
func (s *CredentialStore) ResetPassword(ctx context.Context, user *domain.User, token, newPassword string) error {
	if verrs := validatePassword(newPassword); len(verrs) > 0 {
		return verrs
	}
	if err := s.tokens.Consume(ctx, ports.PurposePasswordReset, user.ID, token); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.FailedAttempts = 0
	user.LockoutEnd = time.Time{}
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *CredentialStore) GetRoles(_ context.Context, user *domain.User) ([]string, error) {
	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)
	return roles, nil
}

func (s *CredentialStore) AddToRole(ctx context.Context, user *domain.User, role string) error {
	if user.HasRole(role) {
		return nil
	}
	user.Roles = append(user.Roles, role)
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *CredentialStore) issueToken(ctx context.Context, purpose ports.TokenPurpose, userID string, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate security token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	if err := s.tokens.Save(ctx, purpose, userID, token, ttl); err != nil {
		return "", err
	}
	return token, nil
}

// validatePassword applies the local password policy. Failures come back in
// rule order so the caller can surface them as an ordered list.
func validatePassword(password string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if len(password) < minPasswordLength {
		errs = append(errs, domain.ValidationError{
			Code:        "PasswordTooShort",
			Description: fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength),
		})
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, domain.ValidationError{Code: "PasswordRequiresUpper", Description: "Passwords must have at least one uppercase letter."})
	}
	if !hasLower {
		errs = append(errs, domain.ValidationError{Code: "PasswordRequiresLower", Description: "Passwords must have at least one lowercase letter."})
	}
	if !hasDigit {
		errs = append(errs, domain.ValidationError{Code: "PasswordRequiresDigit", Description: "Passwords must have at least one digit."})
	}
	return errs
}
