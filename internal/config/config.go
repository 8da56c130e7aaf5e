package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("venturloop-auth version %s, commit %s, built at %s", version, commit, date)
}

const (
	envPrefix = "VENTURLOOP"

	DefaultPort       = 5000
	DefaultBackendURL = "https://venturloopbackend-v-1-0-9.onrender.com"

	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	LinkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"
	LinkedInEmailURL    = "https://api.linkedin.com/v2/emailAddress?q=members&projection=(elements*(handle~))"

	DefaultAssetLinksPath = "public/.well-known/assetlinks.json"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Google     ProviderConfig   `mapstructure:"google"`
	LinkedIn   ProviderConfig   `mapstructure:"linkedin"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Credential CredentialConfig `mapstructure:"credential"`
	DeepLink   DeepLinkConfig   `mapstructure:"deeplink"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins      []string      `mapstructure:"allow_origins"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// ProviderConfig holds the client credentials and endpoints of one OAuth provider.
type ProviderConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	TokenURL     string `mapstructure:"token_url"`
	UserInfoURL  string `mapstructure:"userinfo_url"`
	EmailURL     string `mapstructure:"email_url"` // linkedin only
}

type BackendConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	GoogleSignupPath   string `mapstructure:"google_signup_path"`
	LinkedInSignupPath string `mapstructure:"linkedin_signup_path"`
}

// CredentialConfig controls locally minted credentials. An empty secret
// disables minting.
type CredentialConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type DeepLinkConfig struct {
	Scheme string `mapstructure:"scheme"`
	Host   string `mapstructure:"host"`
	// AssetLinksPath is the Digital Asset Links file served for Android App
	// Links. Empty disables the route.
	AssetLinksPath string `mapstructure:"assetlinks_path"`
}

type HTTPClientConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// legacyEnv maps config keys to the variable names used by earlier deployments.
var legacyEnv = map[string]string{
	"server.port":            "PORT",
	"google.client_id":       "GOOGLE_CLIENT_ID",
	"google.client_secret":   "GOOGLE_CLIENT_SECRET",
	"google.redirect_url":    "GOOGLE_REDIRECT_URI",
	"linkedin.client_id":     "LINKEDIN_CLIENT_ID",
	"linkedin.client_secret": "LINKEDIN_CLIENT_SECRET",
	"linkedin.redirect_url":  "LINKEDIN_REDIRECT_URI",
	"credential.secret":      "JWT_SECRET",
}

// InitFlags registers command line flags on fs (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.Int("port", DefaultPort, "Port to listen on")
	fs.String("config", "", "Path to a config file (yaml)")
	fs.String("env-file", ".env", "Path to a dotenv file loaded before reading the environment")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.disable_stacktrace", false)
	v.SetDefault("logging.output_path", "")
	v.SetDefault("logging.disable_console", false)

	v.SetDefault("google.enabled", true)
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "")
	v.SetDefault("google.token_url", google.Endpoint.TokenURL)
	v.SetDefault("google.userinfo_url", GoogleUserInfoURL)
	v.SetDefault("google.email_url", "")

	v.SetDefault("linkedin.enabled", true)
	v.SetDefault("linkedin.client_id", "")
	v.SetDefault("linkedin.client_secret", "")
	v.SetDefault("linkedin.redirect_url", "")
	v.SetDefault("linkedin.token_url", linkedin.Endpoint.TokenURL)
	v.SetDefault("linkedin.userinfo_url", LinkedInUserInfoURL)
	v.SetDefault("linkedin.email_url", LinkedInEmailURL)

	v.SetDefault("backend.base_url", DefaultBackendURL)
	v.SetDefault("backend.google_signup_path", "/auth/google-signup")
	v.SetDefault("backend.linkedin_signup_path", "/auth/linkedIn-signup")

	v.SetDefault("credential.secret", "")
	v.SetDefault("credential.ttl", 7*24*time.Hour)

	v.SetDefault("deeplink.scheme", "venturloop")
	v.SetDefault("deeplink.host", "callback")
	v.SetDefault("deeplink.assetlinks_path", DefaultAssetLinksPath)

	v.SetDefault("http_client.timeout", 30*time.Second)
}

// Load builds the configuration from defaults, an optional config file, a
// dotenv file, the environment and fs (in increasing priority). fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		if f := fs.Lookup("port"); f != nil {
			if err := v.BindPFlag("server.port", f); err != nil {
				return nil, err
			}
		}
	}

	envFile := ".env"
	envFileSet := false
	configFile := ""
	if fs != nil {
		if f := fs.Lookup("env-file"); f != nil {
			envFile = f.Value.String()
			envFileSet = f.Changed
		}
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	// A missing default dotenv file is normal outside local development.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if envFileSet || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/venturloop-auth")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	if err := c.Google.validate("google"); err != nil {
		return err
	}
	if err := c.LinkedIn.validate("linkedin"); err != nil {
		return err
	}
	if !c.Google.Enabled && !c.LinkedIn.Enabled {
		return errors.New("at least one of google.enabled or linkedin.enabled must be true")
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
	}

	if c.DeepLink.Scheme == "" {
		return errors.New("deeplink.scheme is required")
	}
	if c.Credential.Secret != "" && c.Credential.TTL <= 0 {
		return errors.New("credential.ttl must be positive")
	}
	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if !p.Enabled {
		return nil
	}
	switch {
	case p.ClientID == "":
		return fmt.Errorf("%s.client_id is required, set it in the config or via %s_%s_CLIENT_ID", name, envPrefix, strings.ToUpper(name))
	case p.ClientSecret == "":
		return fmt.Errorf("%s.client_secret is required, set it in the config or via %s_%s_CLIENT_SECRET", name, envPrefix, strings.ToUpper(name))
	case p.RedirectURL == "":
		return fmt.Errorf("%s.redirect_url is required, set it in the config or via %s_%s_REDIRECT_URL", name, envPrefix, strings.ToUpper(name))
	case p.TokenURL == "" || p.UserInfoURL == "":
		return fmt.Errorf("%s.token_url and %s.userinfo_url are required", name, name)
	}
	return nil
}
