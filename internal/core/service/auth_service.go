package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
	"github.com/expenspend/expenspend-api/internal/metrics"
)

// AuthService orchestrates the credential store, the token service and the
// email collaborator into the login/registration/reset/confirmation flows.
type AuthService struct {
	store    ports.CredentialStore
	tokens   ports.TokenService
	emails   ports.EmailSender
	outbox   ports.EmailDispatcher
	denylist ports.TokenDenylist
	baseURL  string
	log      zerolog.Logger
}

func NewAuthService(
	store ports.CredentialStore,
	tokens ports.TokenService,
	emails ports.EmailSender,
	outbox ports.EmailDispatcher,
	denylist ports.TokenDenylist,
	baseURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		emails:   emails,
		outbox:   outbox,
		denylist: denylist,
		baseURL:  baseURL,
		log:      log,
	}
}

// Register opens a local account. The normalized-email pre-check short-circuits
// with ErrUserExists before touching the store; the store's unique index
// remains the authoritative guard against races. Sending the confirmation
// email is the caller's move (via SendConfirmationEmail) so registration never
// blocks on delivery.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	existing, err := s.store.FindByNormalizedEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register lookup: %w", err)
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues("exists").Inc()
		return nil, domain.ErrUserExists
	}

	user := &domain.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	created, err := s.store.Create(ctx, user, input.Password)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return created, nil
}

// Login runs the per-attempt state machine. Terminal outcomes, in priority
// order: account not found, invalid credentials, unconfirmed email (soft —
// regenerates the confirmation token and re-sends the email), locked out,
// generic account issue, success.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (ports.LoginResult, error) {
	user, err := s.store.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return ports.LoginResult{Outcome: ports.LoginAccountNotFound}, nil
		}
		return ports.LoginResult{}, fmt.Errorf("login lookup: %w", err)
	}

	res, err := s.store.SignInWithPassword(ctx, user, password, rememberMe)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("sign in: %w", err)
	}

	if !res.Succeeded {
		if !s.store.CheckPassword(ctx, user, password) {
			metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
			return ports.LoginResult{Outcome: ports.LoginInvalidCredentials}, nil
		}
		if !user.EmailConfirmed {
			// Soft failure: nudge the user back to their inbox.
			if err := s.SendConfirmationEmail(ctx, user); err != nil {
				s.log.Error().Err(err).Str("user_id", user.ID).Msg("confirmation resend failed")
			}
			metrics.LoginsTotal.WithLabelValues("unconfirmed").Inc()
			return ports.LoginResult{Outcome: ports.LoginEmailUnconfirmed}, nil
		}
		if res.LockedOut {
			metrics.LoginsTotal.WithLabelValues("locked_out").Inc()
			return ports.LoginResult{Outcome: ports.LoginLockedOut}, nil
		}
		metrics.LoginsTotal.WithLabelValues("not_allowed").Inc()
		return ports.LoginResult{Outcome: ports.LoginAccountIssue}, nil
	}

	token, err := s.tokens.Issue(user, rememberMe)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	policy := "session"
	if rememberMe {
		policy = "remember_me"
	}
	metrics.TokensIssuedTotal.WithLabelValues(policy).Inc()
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return ports.LoginResult{Outcome: ports.LoginSuccess, Token: token}, nil
}

// Logout revokes the presented token id until the token would have expired
// anyway; the auth middleware rejects denylisted ids from then on.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, tokenID, expiresAt)
}

// SendConfirmationEmail regenerates a confirmation token and enqueues the
// confirmation email. Delivery happens in the background.
func (s *AuthService) SendConfirmationEmail(ctx context.Context, user *domain.User) error {
	token, err := s.store.GenerateEmailConfirmationToken(ctx, user)
	if err != nil {
		return fmt.Errorf("confirmation token: %w", err)
	}
	link := fmt.Sprintf("%s/api/auth/confirm-email?token=%s&email=%s",
		s.baseURL, url.QueryEscape(token), url.QueryEscape(user.Email))
	s.outbox.Enqueue(s.emails.CreateEmailValidationMessage(user.Email, link))
	return nil
}

// ConfirmEmail verifies a confirmation token. Tokens travel base64url-encoded
// in links; the raw and URL-decoded forms are both accepted, decoding happens
// before verification.
func (s *AuthService) ConfirmEmail(ctx context.Context, email, token string) error {
	user, err := s.store.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return err
	}

	var confirmErr error
	for _, candidate := range tokenForms(token) {
		if confirmErr = s.store.ConfirmEmail(ctx, user, candidate); confirmErr == nil {
			return nil
		}
	}
	return confirmErr
}

// ForgotPassword starts the two-step reset flow: a single-use, time-boxed
// token is generated and mailed. The endpoint's response does not depend on
// delivery.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.store.GeneratePasswordResetToken(ctx, user)
	if err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	link := fmt.Sprintf("%s/api/auth/reset-password?token=%s&email=%s",
		s.baseURL, url.QueryEscape(token), url.QueryEscape(user.Email))
	s.outbox.Enqueue(s.emails.CreatePasswordResetMessage(user.Email, link))
	return nil
}

// ResetPassword finishes the reset flow and notifies the user of the change.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	user, err := s.store.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return err
	}

	var resetErr error
	for _, candidate := range tokenForms(token) {
		if resetErr = s.store.ResetPassword(ctx, user, candidate, newPassword); resetErr == nil {
			s.outbox.Enqueue(s.emails.CreatePasswordChangeNotification(user.Email, user.FirstName))
			return nil
		}
		var verrs domain.ValidationErrors
		if errors.As(resetErr, &verrs) {
			// Policy failures are terminal; retrying other encodings won't help.
			return resetErr
		}
	}
	return resetErr
}

func (s *AuthService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.FindByNormalizedEmail(ctx, email)
}

// tokenForms returns the candidate encodings of a security token: the string
// as presented, and its URL-decoded form when that differs (links may arrive
// with percent-encoding still applied).
func tokenForms(token string) []string {
	forms := []string{token}
	if decoded, err := url.QueryUnescape(token); err == nil && decoded != token {
		forms = append(forms, decoded)
	}
	return forms
}
