package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse(append([]string{"--env-file="}, args...)))
	return fs
}

func setLegacyCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "g-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "g-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://relay.example/callback")
	t.Setenv("LINKEDIN_CLIENT_ID", "l-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "l-secret")
	t.Setenv("LINKEDIN_REDIRECT_URI", "https://relay.example/callback_linkedIn")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	setLegacyCredentials(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8080")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "g-id", cfg.Google.ClientID)
	assert.Equal(t, "g-secret", cfg.Google.ClientSecret)
	assert.Equal(t, "https://relay.example/callback", cfg.Google.RedirectURL)
	assert.Equal(t, "l-id", cfg.LinkedIn.ClientID)
	assert.Equal(t, "https://relay.example/callback_linkedIn", cfg.LinkedIn.RedirectURL)
	assert.Equal(t, "s3cret", cfg.Credential.Secret)

	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.Google.TokenURL)
	assert.Equal(t, GoogleUserInfoURL, cfg.Google.UserInfoURL)
	assert.Equal(t, LinkedInEmailURL, cfg.LinkedIn.EmailURL)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, "/auth/google-signup", cfg.Backend.GoogleSignupPath)
	assert.Equal(t, "/auth/linkedIn-signup", cfg.Backend.LinkedInSignupPath)
	assert.Equal(t, 7*24*time.Hour, cfg.Credential.TTL)
	assert.Equal(t, "venturloop", cfg.DeepLink.Scheme)
	assert.Equal(t, "callback", cfg.DeepLink.Host)
	assert.Equal(t, 30*time.Second, cfg.HTTPClient.Timeout)
	assert.True(t, cfg.Google.Enabled)
	assert.True(t, cfg.LinkedIn.Enabled)
}

func TestLoad_PrefixedEnvironmentWins(t *testing.T) {
	setLegacyCredentials(t)
	t.Setenv("VENTURLOOP_GOOGLE_CLIENT_ID", "prefixed-id")
	t.Setenv("VENTURLOOP_BACKEND_BASE_URL", "http://backend.internal:9000")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "prefixed-id", cfg.Google.ClientID)
	assert.Equal(t, "http://backend.internal:9000", cfg.Backend.BaseURL)
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  allow_origins: ["https://app.venturloop.com"]
logging:
  level: debug
  format: json
google:
  client_id: file-id
  client_secret: file-secret
  redirect_url: https://relay.example/callback
linkedin:
  enabled: false
credential:
  secret: file-jwt
  ttl: 1h
http_client:
  timeout: 5s
`)

	cfg, err := Load(newFlags(t, "--config", path, "--port", "6000"))
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.venturloop.com"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "file-id", cfg.Google.ClientID)
	assert.False(t, cfg.LinkedIn.Enabled)
	assert.Equal(t, "file-jwt", cfg.Credential.Secret)
	assert.Equal(t, time.Hour, cfg.Credential.TTL)
	assert.Equal(t, 5*time.Second, cfg.HTTPClient.Timeout)
}

func TestLoad_DotenvFile(t *testing.T) {
	keys := []string{
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
		"LINKEDIN_CLIENT_ID", "LINKEDIN_CLIENT_SECRET", "LINKEDIN_REDIRECT_URI",
	}
	for _, k := range keys {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})

	path := writeFile(t, ".env", `GOOGLE_CLIENT_ID=dotenv-id
GOOGLE_CLIENT_SECRET=dotenv-secret
GOOGLE_REDIRECT_URI=https://relay.example/callback
LINKEDIN_CLIENT_ID=dotenv-l-id
LINKEDIN_CLIENT_SECRET=dotenv-l-secret
LINKEDIN_REDIRECT_URI=https://relay.example/callback_linkedIn
`)

	cfg, err := Load(newFlags(t, "--env-file", path))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-id", cfg.Google.ClientID)
	assert.Equal(t, "dotenv-l-secret", cfg.LinkedIn.ClientSecret)
}

func TestLoad_EnvFileErrors(t *testing.T) {
	setLegacyCredentials(t)

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Load(newFlags(t, "--env-file", filepath.Join(t.TempDir(), "absent.env")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load env file")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, ".env", "GOOGLE_CLIENT_ID=\"unterminated\n")
		_, err := Load(newFlags(t, "--env-file", path))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load env file")
	})

	t.Run("default path missing", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		InitFlags(fs)
		require.NoError(t, fs.Parse(nil))

		cfg, err := Load(fs)
		require.NoError(t, err)
		assert.Equal(t, "g-id", cfg.Google.ClientID)
		assert.Equal(t, DefaultAssetLinksPath, cfg.DeepLink.AssetLinksPath)
	})
}

func TestLoad_MissingConfigFile(t *testing.T) {
	setLegacyCredentials(t)
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func validConfig() Config {
	provider := ProviderConfig{
		Enabled:      true,
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "https://relay.example/callback",
		TokenURL:     "https://idp.example/token",
		UserInfoURL:  "https://idp.example/userinfo",
	}
	return Config{
		Google:     provider,
		LinkedIn:   provider,
		Backend:    BackendConfig{BaseURL: "https://backend.example"},
		Credential: CredentialConfig{TTL: time.Hour},
		DeepLink:   DeepLinkConfig{Scheme: "venturloop", Host: "callback"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing google client id", mutate: func(c *Config) { c.Google.ClientID = "" }, wantErr: "google.client_id is required"},
		{name: "missing linkedin secret", mutate: func(c *Config) { c.LinkedIn.ClientSecret = "" }, wantErr: "linkedin.client_secret is required"},
		{name: "missing redirect", mutate: func(c *Config) { c.Google.RedirectURL = "" }, wantErr: "google.redirect_url is required"},
		{name: "disabled provider skips checks", mutate: func(c *Config) { c.LinkedIn = ProviderConfig{} }},
		{name: "no provider enabled", mutate: func(c *Config) {
			c.Google.Enabled = false
			c.LinkedIn.Enabled = false
		}, wantErr: "at least one of"},
		{name: "relative backend url", mutate: func(c *Config) { c.Backend.BaseURL = "/auth" }, wantErr: "backend.base_url"},
		{name: "missing scheme", mutate: func(c *Config) { c.DeepLink.Scheme = "" }, wantErr: "deeplink.scheme"},
		{name: "secret without ttl", mutate: func(c *Config) {
			c.Credential.Secret = "s"
			c.Credential.TTL = 0
		}, wantErr: "credential.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
