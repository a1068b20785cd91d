package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
	"github.com/expenspend/expenspend-api/internal/metrics"
)

// Auth0Service exchanges an Auth0 access token for a local account and a
// local bearer token. The upstream token is never trusted to authenticate
// local resources directly; it is exchanged exactly once per call.
type Auth0Service struct {
	store  ports.CredentialStore
	auth   ports.AuthService
	tokens ports.TokenService
	client *http.Client
	domain string
	log    zerolog.Logger
}

func NewAuth0Service(
	store ports.CredentialStore,
	auth ports.AuthService,
	tokens ports.TokenService,
	client *http.Client,
	auth0Domain string,
	log zerolog.Logger,
) *Auth0Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Auth0Service{
		store:  store,
		auth:   auth,
		tokens: tokens,
		client: client,
		domain: auth0Domain,
		log:    log,
	}
}

// ExchangeToken calls the provider's userinfo endpoint, provisions a local
// account on first sight, and mints a local session token. Upstream rejection
// or transport failure surfaces as domain.ErrUpstreamAuth with no retry; the
// caller must re-authenticate upstream.
func (s *Auth0Service) ExchangeToken(ctx context.Context, accessToken string) (*ports.Auth0Profile, error) {
	profile, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		metrics.FederatedExchangesTotal.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	user, err := s.store.FindByNormalizedEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("federated lookup: %w", err)
		}
		if err := s.provisionAccount(ctx, profile); err != nil {
			return nil, err
		}
		user, err = s.store.FindByNormalizedEmail(ctx, profile.Email)
		if err != nil {
			return nil, fmt.Errorf("federated refetch: %w", err)
		}
		metrics.FederatedExchangesTotal.WithLabelValues("provisioned").Inc()
	} else {
		metrics.FederatedExchangesTotal.WithLabelValues("existing").Inc()
	}

	token, err := s.tokens.Issue(user, false)
	if err != nil {
		return nil, fmt.Errorf("issue local token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("session").Inc()

	profile.Token = token
	return profile, nil
}

func (s *Auth0Service) fetchUserInfo(ctx context.Context, accessToken string) (*ports.Auth0Profile, error) {
	endpoint := fmt.Sprintf("https://%s/userinfo", s.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn().Int("status", resp.StatusCode).Msg("userinfo rejected")
		return nil, fmt.Errorf("%w: userinfo returned %d", domain.ErrUpstreamAuth, resp.StatusCode)
	}

	var profile ports.Auth0Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", domain.ErrUpstreamAuth, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: userinfo missing email", domain.ErrUpstreamAuth)
	}
	return &profile, nil
}

// provisionAccount synthesizes a registration for a federated identity. The
// generated password is never shown to anyone, so interactive local login
// stays disabled until an explicit password reset.
func (s *Auth0Service) provisionAccount(ctx context.Context, profile *ports.Auth0Profile) error {
	first, last := splitDisplayName(profile.Name)
	password, err := generatePassword()
	if err != nil {
		return err
	}

	user, err := s.auth.Register(ctx, ports.RegisterInput{
		Email:     profile.Email,
		FirstName: first,
		LastName:  last,
		Password:  password,
	})
	if err != nil {
		// A concurrent exchange may have won the race; the refetch handles it.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("federated provision: %w", err)
	}

	// The identity is already proven upstream; skip the confirmation loop.
	user.EmailConfirmed = true
	if err := s.confirmProvisioned(ctx, user); err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("provisioned federated account")
	return nil
}

func (s *Auth0Service) confirmProvisioned(ctx context.Context, user *domain.User) error {
	token, err := s.store.GenerateEmailConfirmationToken(ctx, user)
	if err != nil {
		return fmt.Errorf("federated confirm: %w", err)
	}
	if err := s.store.ConfirmEmail(ctx, user, token); err != nil {
		return fmt.Errorf("federated confirm: %w", err)
	}
	return nil
}

// splitDisplayName splits at the first space: last name is the remainder,
// empty when the display name is a single token.
func splitDisplayName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// generatePassword returns a random password that satisfies the local policy
// by construction.
func generatePassword() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	// Prefix guarantees the policy's character classes regardless of the
	// random tail.
	return "Fp1" + base64.RawURLEncoding.EncodeToString(raw), nil
}
