package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/venturloop/auth-relay/internal/config"
	"go.uber.org/fx"
)

func TestOptions_GraphIsComplete(t *testing.T) {
	cfg := &config.Config{
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: 0, AllowOrigins: []string{"*"}},
		Google:     config.ProviderConfig{Enabled: true, ClientID: "id", ClientSecret: "secret", RedirectURL: "https://r", TokenURL: "https://t", UserInfoURL: "https://u"},
		LinkedIn:   config.ProviderConfig{Enabled: true, ClientID: "id", ClientSecret: "secret", RedirectURL: "https://r", TokenURL: "https://t", UserInfoURL: "https://u", EmailURL: "https://e"},
		Backend:    config.BackendConfig{BaseURL: "https://backend.example", GoogleSignupPath: "/auth/google-signup", LinkedInSignupPath: "/auth/linkedIn-signup"},
		Credential: config.CredentialConfig{Secret: "s", TTL: 0},
		DeepLink:   config.DeepLinkConfig{Scheme: "venturloop", Host: "callback"},
	}
	require.NoError(t, fx.ValidateApp(Options(cfg)))
}
