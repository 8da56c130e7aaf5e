package providers

import (
	"context"

	"github.com/venturloop/auth-relay/internal/auth/models"
)

// Provider is the capability every supported OAuth provider implements
type Provider interface {
	// Name identifies the provider in routes, logs and backend calls
	Name() models.ProviderName

	// ExchangeCode trades an authorization code for tokens. codeVerifier is
	// sent only when non-empty.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.TokenSet, error)

	// ResolveIdentity fetches the user behind tokens
	ResolveIdentity(ctx context.Context, tokens *models.TokenSet) (*models.Identity, error)
}
