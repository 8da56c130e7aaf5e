package auth

import (
	"net/http"

	"github.com/venturloop/auth-relay/internal/auth/constants"
	"github.com/venturloop/auth-relay/internal/auth/handlers"
	"github.com/venturloop/auth-relay/internal/auth/middleware"
	"github.com/venturloop/auth-relay/internal/config"
)

// Service exposes the OAuth callback routes
type Service struct {
	config  *config.Config
	handler *handlers.Handler
}

// NewService creates a new OAuth service
func NewService(cfg *config.Config, handler *handlers.Handler) *Service {
	return &Service{
		config:  cfg,
		handler: handler,
	}
}

// RegisterRoutes registers all OAuth-related routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(constants.RouteRoot, s.handler.HandleRoot)
	mux.HandleFunc(constants.RouteHealth, s.handler.HandleHealth)
	if path := s.config.DeepLink.AssetLinksPath; path != "" {
		mux.HandleFunc(constants.RouteAssetLinks, handlers.AssetLinks(path))
	}

	if s.config.Google.Enabled {
		mux.HandleFunc(constants.RouteGoogleCallback, s.handler.HandleGoogleCallback)
	}
	if s.config.LinkedIn.Enabled {
		mux.HandleFunc(constants.RouteLinkedInCallback, s.handler.HandleLinkedInCallback)
	}
}

// WrapWithMiddleware wraps handler with request logging and CORS
func (s *Service) WrapWithMiddleware(handler http.Handler) http.Handler {
	return middleware.RequestLogger(middleware.CORSWithOrigins(s.config.Server.AllowOrigins)(handler))
}
