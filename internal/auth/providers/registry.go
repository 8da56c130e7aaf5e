package providers

import (
	"fmt"
	"net/http"

	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/config"
)

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[models.ProviderName]Provider
}

func NewRegistry(list ...Provider) *Registry {
	m := make(map[models.ProviderName]Provider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// NewRegistryFromConfig registers every enabled provider.
func NewRegistryFromConfig(cfg *config.Config, httpClient *http.Client) *Registry {
	var list []Provider
	if cfg.Google.Enabled {
		list = append(list, NewGoogleProvider(cfg.Google, httpClient))
	}
	if cfg.LinkedIn.Enabled {
		list = append(list, NewLinkedInProvider(cfg.LinkedIn, httpClient))
	}
	return NewRegistry(list...)
}

// Get returns the provider registered under name.
func (r *Registry) Get(name models.ProviderName) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}
