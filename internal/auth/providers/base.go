package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/venturloop/auth-relay/internal/auth/constants"
	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/config"
	"golang.org/x/oauth2"
)

var (
	// ErrMissingIDToken is returned when the token response has no id_token.
	ErrMissingIDToken = errors.New("token response missing id_token")

	// ErrMissingSubject is returned when userinfo has no sub claim.
	ErrMissingSubject = errors.New("userinfo response missing sub")
)

// oauthClient is the code exchange and userinfo plumbing shared by providers.
type oauthClient struct {
	name         models.ProviderName
	oauth2Config *oauth2.Config
	oidc         *oidc.Provider
	httpClient   *http.Client
}

func newOAuthClient(name models.ProviderName, cfg config.ProviderConfig, httpClient *http.Client) *oauthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	endpoint := oauth2.Endpoint{
		TokenURL:  cfg.TokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}

	// Endpoints are configured directly so no discovery request is made at startup.
	oidcProvider := (&oidc.ProviderConfig{
		TokenURL:    cfg.TokenURL,
		UserInfoURL: cfg.UserInfoURL,
	}).NewProvider(context.Background())

	return &oauthClient{
		name: name,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		oidc:       oidcProvider,
		httpClient: httpClient,
	}
}

// clientContext makes oauth2 and go-oidc use the shared client; both read
// the oauth2.HTTPClient context key.
func (c *oauthClient) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *oauthClient) exchange(ctx context.Context, code, codeVerifier string) (*models.TokenSet, error) {
	opts := []oauth2.AuthCodeOption{}
	if codeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}

	token, err := c.oauth2Config.Exchange(c.clientContext(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", c.name, err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("%s token exchange failed: %w", c.name, ErrMissingIDToken)
	}

	return &models.TokenSet{
		AccessToken: token.AccessToken,
		IDToken:     idToken,
		TokenType:   token.Type(),
		Expiry:      token.Expiry,
	}, nil
}

func (c *oauthClient) tokenSource(tokens *models.TokenSet) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: tokens.AccessToken,
		TokenType:   constants.TokenType,
	})
}

func (c *oauthClient) userInfo(ctx context.Context, tokens *models.TokenSet, claims interface{}) error {
	info, err := c.oidc.UserInfo(c.clientContext(ctx), c.tokenSource(tokens))
	if err != nil {
		return fmt.Errorf("%s userinfo request failed: %w", c.name, err)
	}
	if info.Subject == "" {
		return fmt.Errorf("%s: %w", c.name, ErrMissingSubject)
	}
	if err := info.Claims(claims); err != nil {
		return fmt.Errorf("failed to decode %s userinfo: %w", c.name, err)
	}
	return nil
}
