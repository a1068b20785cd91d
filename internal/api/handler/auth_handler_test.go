package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
)

type stubAuthService struct {
	registerUser  *domain.User
	registerErr   error
	loginResult   ports.LoginResult
	loginErr      error
	confirmErr    error
	forgotErr     error
	resetErr      error
	confirmations int
	revokedIDs    []string
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	if s.registerUser != nil {
		return s.registerUser, nil
	}
	return &domain.User{ID: "new-user", Email: input.Email}, nil
}

func (s *stubAuthService) Login(context.Context, string, string, bool) (ports.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Logout(_ context.Context, tokenID string, _ time.Time) error {
	s.revokedIDs = append(s.revokedIDs, tokenID)
	return nil
}

func (s *stubAuthService) SendConfirmationEmail(context.Context, *domain.User) error {
	s.confirmations++
	return nil
}

func (s *stubAuthService) ConfirmEmail(context.Context, string, string) error {
	return s.confirmErr
}

func (s *stubAuthService) ForgotPassword(context.Context, string) error {
	return s.forgotErr
}

func (s *stubAuthService) ResetPassword(context.Context, string, string, string) error {
	return s.resetErr
}

func (s *stubAuthService) FindUserByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type stubAuth0Service struct {
	profile *ports.Auth0Profile
	err     error
}

func (s stubAuth0Service) ExchangeToken(context.Context, string) (*ports.Auth0Profile, error) {
	return s.profile, s.err
}

type stubEmailSender struct{}

func (stubEmailSender) SendEmail(context.Context, ports.EmailMessage) error { return nil }

func (stubEmailSender) CreateEmailValidationMessage(email, link string) ports.EmailMessage {
	return ports.EmailMessage{To: email, HTMLBody: link}
}

func (stubEmailSender) CreatePasswordResetMessage(email, link string) ports.EmailMessage {
	return ports.EmailMessage{To: email, HTMLBody: link}
}

func (stubEmailSender) CreatePasswordChangeNotification(email, name string) ports.EmailMessage {
	return ports.EmailMessage{To: email, HTMLBody: name}
}

func (stubEmailSender) ConfirmationPageTemplate() string { return "<html>confirmed</html>" }

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newAuthHandler(auth *stubAuthService, auth0 stubAuth0Service) *AuthHandler {
	return NewAuthHandler(auth, auth0, stubEmailSender{}, zerolog.Nop())
}

func TestRegisterHandler_Created(t *testing.T) {
	auth := &stubAuthService{}
	h := newAuthHandler(auth, stubAuth0Service{})

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"email":"bob@example.com","first_name":"Bob","last_name":"Jones","password":"Password1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if auth.confirmations != 1 {
		t.Fatalf("expected confirmation email to be queued, got %d", auth.confirmations)
	}
}

func TestRegisterHandler_DuplicatePassesThrough(t *testing.T) {
	h := newAuthHandler(&stubAuthService{registerErr: domain.ErrUserExists}, stubAuth0Service{})

	c, _ := newTestContext(http.MethodPost, "/api/auth/register",
		`{"email":"bob@example.com","first_name":"Bob","last_name":"Jones","password":"Password1"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterHandler_RejectsInvalidPayload(t *testing.T) {
	h := newAuthHandler(&stubAuthService{}, stubAuth0Service{})

	c, _ := newTestContext(http.MethodPost, "/api/auth/register",
		`{"email":"not-an-email","password":"short"}`)
	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLoginHandler_OutcomeStatusMapping(t *testing.T) {
	cases := []struct {
		outcome ports.LoginOutcome
		want    int
	}{
		{ports.LoginSuccess, http.StatusOK},
		{ports.LoginAccountNotFound, http.StatusNotFound},
		{ports.LoginInvalidCredentials, http.StatusUnauthorized},
		{ports.LoginEmailUnconfirmed, http.StatusForbidden},
		{ports.LoginLockedOut, http.StatusLocked},
		{ports.LoginAccountIssue, http.StatusForbidden},
	}

	for _, tc := range cases {
		h := newAuthHandler(&stubAuthService{
			loginResult: ports.LoginResult{Outcome: tc.outcome, Token: "tok"},
		}, stubAuth0Service{})

		c, rec := newTestContext(http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"Password1"}`)
		if err := h.Login(c); err != nil {
			t.Fatalf("outcome %v: %v", tc.outcome, err)
		}
		if rec.Code != tc.want {
			t.Errorf("outcome %v: got status %d, want %d", tc.outcome, rec.Code, tc.want)
		}
	}
}

func TestLoginHandler_SuccessBodyCarriesToken(t *testing.T) {
	h := newAuthHandler(&stubAuthService{
		loginResult: ports.LoginResult{Outcome: ports.LoginSuccess, Token: "bearer-me"},
	}, stubAuth0Service{})

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"Password1","remember_me":true}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "bearer-me" {
		t.Fatalf("expected token in body, got %q", resp.Token)
	}
}

func TestLogoutHandler_RevokesPresentedToken(t *testing.T) {
	auth := &stubAuthService{}
	h := newAuthHandler(auth, stubAuth0Service{})

	c, rec := newTestContext(http.MethodPost, "/api/auth/logout", "")
	c.Set("token_id", "jti-9")
	c.Set("token_expires_at", time.Now().Add(time.Hour))

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(auth.revokedIDs) != 1 || auth.revokedIDs[0] != "jti-9" {
		t.Fatalf("expected jti-9 revoked, got %v", auth.revokedIDs)
	}
}

func TestConfirmEmailHandler_RendersPage(t *testing.T) {
	h := newAuthHandler(&stubAuthService{}, stubAuth0Service{})

	c, rec := newTestContext(http.MethodGet, "/api/auth/confirm-email?token=t1&email=alice%40example.com", "")
	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "confirmed") {
		t.Fatalf("expected confirmation page, got %s", rec.Body.String())
	}
}

func TestConfirmEmailHandler_RequiresParams(t *testing.T) {
	h := newAuthHandler(&stubAuthService{}, stubAuth0Service{})

	c, _ := newTestContext(http.MethodGet, "/api/auth/confirm-email?token=t1", "")
	err := h.ConfirmEmail(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestConfirmEmailHandler_InvalidTokenPassesThrough(t *testing.T) {
	h := newAuthHandler(&stubAuthService{confirmErr: domain.ErrInvalidToken}, stubAuth0Service{})

	c, _ := newTestContext(http.MethodGet, "/api/auth/confirm-email?token=bad&email=a%40b.com", "")
	if err := h.ConfirmEmail(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuth0LoginHandler_RequiresBearer(t *testing.T) {
	h := newAuthHandler(&stubAuthService{}, stubAuth0Service{})

	c, _ := newTestContext(http.MethodGet, "/api/auth/auth0-login", "")
	err := h.Auth0Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth0LoginHandler_ReturnsProfile(t *testing.T) {
	h := newAuthHandler(&stubAuthService{}, stubAuth0Service{
		profile: &ports.Auth0Profile{Email: "carol@example.com", Token: "local-token"},
	})

	c, rec := newTestContext(http.MethodGet, "/api/auth/auth0-login", "")
	c.Request().Header.Set("Authorization", "Bearer upstream")
	if err := h.Auth0Login(c); err != nil {
		t.Fatalf("auth0 login: %v", err)
	}

	var profile ports.Auth0Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Token != "local-token" {
		t.Fatalf("expected local token attached, got %+v", profile)
	}
}

func TestAuth0LoginHandler_UpstreamErrorPassesThrough(t *testing.T) {
	h := newAuthHandler(&stubAuthService{}, stubAuth0Service{err: domain.ErrUpstreamAuth})

	c, _ := newTestContext(http.MethodGet, "/api/auth/auth0-login", "")
	c.Request().Header.Set("Authorization", "Bearer upstream")
	if err := h.Auth0Login(c); !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Fatalf("expected ErrUpstreamAuth, got %v", err)
	}
}
