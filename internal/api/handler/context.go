package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. Its presence proves the middleware ran; a missing id on a
// protected route means the token was structurally valid but carried no
// subject, which is unusable.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxToken returns the token id and expiry injected by the Auth middleware,
// used by logout to revoke exactly the presented token.
func ctxToken(c echo.Context) (tokenID string, expiresAt time.Time) {
	tokenID, _ = c.Get("token_id").(string)
	expiresAt, _ = c.Get("token_expires_at").(time.Time)
	return tokenID, expiresAt
}
