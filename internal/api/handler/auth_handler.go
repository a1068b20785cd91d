package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/expenspend/expenspend-api/internal/core/ports"
)

type AuthHandler struct {
	auth  ports.AuthService
	auth0 ports.Auth0Service
	email ports.EmailSender
	log   zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, auth0 ports.Auth0Service, email ports.EmailSender, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, auth0: auth0, email: email, log: log}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a new local account and kicks off the confirmation email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	// Confirmation email is queued in the background; registration never
	// waits on delivery.
	if err := h.auth.SendConfirmationEmail(c.Request().Context(), user); err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("confirmation email not sent")
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: "Registration successful. Please check your email to confirm your account.",
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case ports.LoginSuccess:
		return c.JSON(http.StatusOK, tokenResponse{Token: result.Token})
	case ports.LoginAccountNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "We couldn't find your account. Double-check your credentials or sign up.",
		})
	case ports.LoginInvalidCredentials:
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "The email or password you entered is incorrect.",
		})
	case ports.LoginEmailUnconfirmed:
		// Soft outcome: a fresh confirmation link is already on its way.
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "Your email is not verified yet. We've sent you a new confirmation link.",
		})
	case ports.LoginLockedOut:
		return c.JSON(http.StatusLocked, map[string]string{
			"error": "Your account has been locked out. Try again later or reset your password.",
		})
	default:
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "There was an issue with your account. Try again later or contact support.",
		})
	}
}

// Logout revokes the presented bearer token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, expiresAt := ctxToken(c)
	if err := h.auth.Logout(c.Request().Context(), tokenID, expiresAt); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out."})
}

// ForgotPassword starts the password-reset flow.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset link sent. Check your email."})
}

// ResetPassword finishes the password-reset flow.
//
// @Summary      Reset the password using a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed."})
}

// ConfirmEmail verifies the emailed confirmation token and renders the
// confirmation page.
//
// @Summary      Confirm an email address
// @Tags         auth
// @Produce      html
// @Param        token  query  string  true  "Confirmation token"
// @Param        email  query  string  true  "Account email"
// @Success      200    {string}  string
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/auth/confirm-email [get]
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	token := c.QueryParam("token")
	emailAddr := c.QueryParam("email")
	if token == "" || emailAddr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token and email are required")
	}

	if err := h.auth.ConfirmEmail(c.Request().Context(), emailAddr, token); err != nil {
		return err
	}
	return c.HTML(http.StatusOK, h.email.ConfirmationPageTemplate())
}

// Auth0Login exchanges an Auth0 access token for a local account and token.
//
// @Summary      Login via Auth0
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer <auth0 access token>"
// @Success      200            {object}  ports.Auth0Profile
// @Failure      401            {object}  map[string]string
// @Failure      502            {object}  map[string]string
// @Router       /api/auth/auth0-login [get]
func (h *AuthHandler) Auth0Login(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing upstream access token")
	}

	profile, err := h.auth0.ExchangeToken(c.Request().Context(), parts[1])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
