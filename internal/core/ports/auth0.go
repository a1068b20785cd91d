package ports

import "context"

// Auth0Profile is the user info returned by the external identity provider,
// plus the locally minted bearer token attached after the exchange.
type Auth0Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Token   string `json:"token,omitempty"`
}

// Auth0Service exchanges an external access token for a local account and a
// local bearer token. The upstream token never authenticates local resources
// directly.
type Auth0Service interface {
	ExchangeToken(ctx context.Context, accessToken string) (*Auth0Profile, error)
}
