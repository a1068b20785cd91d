package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string                   `json:"error"`
	Details []domain.ValidationError `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Registration/password-policy failures keep their ordered detail list.
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Details: verrs}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "an account with this email already exists"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrLockedOut):
		return http.StatusLocked, errorResponse{Error: "account locked, try again later"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, errorResponse{Error: "invalid or expired token"}
	case errors.Is(err, domain.ErrSelfFriendship):
		return http.StatusUnprocessableEntity, errorResponse{Error: "cannot befriend yourself"}
	case errors.Is(err, domain.ErrDuplicatePair):
		return http.StatusConflict, errorResponse{Error: "friend request already exists"}
	case errors.Is(err, domain.ErrFriendshipNotFound):
		return http.StatusNotFound, errorResponse{Error: "friendship not found"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUpstreamAuth):
		return http.StatusBadGateway, errorResponse{Error: "identity provider rejected the request"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
