package ports

import (
	"context"
	"time"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

// LoginOutcome enumerates the terminal states of a login attempt, in the
// priority order the orchestrator evaluates them.
type LoginOutcome int

const (
	LoginAccountNotFound LoginOutcome = iota
	LoginInvalidCredentials
	LoginEmailUnconfirmed
	LoginLockedOut
	LoginAccountIssue
	LoginSuccess
)

// LoginResult is the tagged result of a login attempt. Token is set only on
// LoginSuccess.
type LoginResult struct {
	Outcome LoginOutcome
	Token   string
}

// RegisterInput carries the fields needed to open a local account.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthService composes the credential store and the token service into the
// login/registration/reset/confirmation flows. Business failures are returned
// as structured values or sentinel errors, never panics.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (LoginResult, error)
	// Logout revokes the presented token until its natural expiry.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error

	// SendConfirmationEmail regenerates a confirmation token for the user and
	// enqueues the confirmation email. Never blocks on delivery.
	SendConfirmationEmail(ctx context.Context, user *domain.User) error
	ConfirmEmail(ctx context.Context, email, token string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error

	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
