package auth

import (
	"github.com/venturloop/auth-relay/internal/auth/handlers"
	"github.com/venturloop/auth-relay/internal/backend"
	"github.com/venturloop/auth-relay/internal/credential"
	"go.uber.org/fx"
)

func asBackend(c *backend.Client) Backend                      { return c }
func asCredentialIssuer(i *credential.Issuer) CredentialIssuer { return i }
func asCompleter(f *Flow) handlers.Completer                   { return f }

// Module provides the OAuth flow, its handlers and the route service
var Module = fx.Module("auth",
	fx.Provide(
		asBackend,
		asCredentialIssuer,
		NewFlow,
		asCompleter,
		handlers.NewHandler,
		NewService,
	),
)
