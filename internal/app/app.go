// Package app composes the relay's fx modules.
package app

import (
	"github.com/venturloop/auth-relay/internal/auth"
	"github.com/venturloop/auth-relay/internal/auth/providers"
	"github.com/venturloop/auth-relay/internal/backend"
	"github.com/venturloop/auth-relay/internal/config"
	"github.com/venturloop/auth-relay/internal/credential"
	"github.com/venturloop/auth-relay/internal/deeplink"
	"github.com/venturloop/auth-relay/internal/logger"
	"github.com/venturloop/auth-relay/internal/requester"
	"github.com/venturloop/auth-relay/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Options returns the full dependency graph for cfg.
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.GetLogger()}
		}),
		requester.Module,
		backend.Module,
		fx.Provide(
			credential.NewIssuerFromConfig,
			deeplink.NewBuilderFromConfig,
		),
		providers.Module,
		auth.Module,
		server.Module,
	)
}

// New builds the application for cfg.
func New(cfg *config.Config) *fx.App {
	return fx.New(Options(cfg))
}
