package providers

import (
	"context"
	"net/http"

	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/config"
)

type GoogleProvider struct {
	client *oauthClient
}

func NewGoogleProvider(cfg config.ProviderConfig, httpClient *http.Client) *GoogleProvider {
	return &GoogleProvider{
		client: newOAuthClient(models.ProviderGoogle, cfg, httpClient),
	}
}

func (p *GoogleProvider) Name() models.ProviderName {
	return models.ProviderGoogle
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.TokenSet, error) {
	return p.client.exchange(ctx, code, codeVerifier)
}

func (p *GoogleProvider) ResolveIdentity(ctx context.Context, tokens *models.TokenSet) (*models.Identity, error) {
	var claims struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := p.client.userInfo(ctx, tokens, &claims); err != nil {
		return nil, err
	}

	return &models.Identity{
		Subject:    claims.Sub,
		Email:      claims.Email,
		Name:       claims.Name,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Picture:    claims.Picture,
	}, nil
}
