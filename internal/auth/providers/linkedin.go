package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/config"
	"github.com/venturloop/auth-relay/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

type LinkedInProvider struct {
	client   *oauthClient
	emailURL string
}

func NewLinkedInProvider(cfg config.ProviderConfig, httpClient *http.Client) *LinkedInProvider {
	return &LinkedInProvider{
		client:   newOAuthClient(models.ProviderLinkedIn, cfg, httpClient),
		emailURL: cfg.EmailURL,
	}
}

func (p *LinkedInProvider) Name() models.ProviderName {
	return models.ProviderLinkedIn
}

// ExchangeCode ignores codeVerifier; the LinkedIn flow does not use PKCE.
func (p *LinkedInProvider) ExchangeCode(ctx context.Context, code, _ string) (*models.TokenSet, error) {
	return p.client.exchange(ctx, code, "")
}

// ResolveIdentity merges the OIDC profile with the address from the email
// endpoint. The two calls run concurrently and both must succeed.
func (p *LinkedInProvider) ResolveIdentity(ctx context.Context, tokens *models.TokenSet) (*models.Identity, error) {
	var (
		profile struct {
			Sub        string `json:"sub"`
			Name       string `json:"name"`
			GivenName  string `json:"given_name"`
			FamilyName string `json:"family_name"`
			Picture    string `json:"picture"`
		}
		email string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.client.userInfo(gctx, tokens, &profile)
	})
	g.Go(func() error {
		var err error
		email, err = p.fetchEmail(gctx, tokens)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = strings.TrimSpace(profile.GivenName + " " + profile.FamilyName)
	}

	return &models.Identity{
		Subject:    profile.Sub,
		Email:      email,
		Name:       name,
		GivenName:  profile.GivenName,
		FamilyName: profile.FamilyName,
		Picture:    profile.Picture,
	}, nil
}

func (p *LinkedInProvider) fetchEmail(ctx context.Context, tokens *models.TokenSet) (string, error) {
	client := oauth2.NewClient(p.client.clientContext(ctx), p.client.tokenSource(tokens))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.emailURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin email request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("linkedin email request failed with status %d", resp.StatusCode)
	}

	var body struct {
		Elements []struct {
			Handle struct {
				EmailAddress string `json:"emailAddress"`
			} `json:"handle~"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode linkedin email response: %w", err)
	}

	if len(body.Elements) == 0 || body.Elements[0].Handle.EmailAddress == "" {
		return "", models.ErrEmailNotFound
	}
	return body.Elements[0].Handle.EmailAddress, nil
}
