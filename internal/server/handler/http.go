// Package handler assembles the HTTP handler tree served by the relay.
package handler

import (
	"net/http"

	"github.com/venturloop/auth-relay/internal/auth"
	"github.com/venturloop/auth-relay/internal/logger"
)

// Handler manages route registration and middleware configuration.
type Handler struct {
	auth *auth.Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(auth *auth.Service) *Handler {
	return &Handler{
		auth: auth,
	}
}

// CreateHTTPHandler registers the OAuth routes on a fresh mux and wraps it
// with the middleware stack.
func (h *Handler) CreateHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	h.auth.RegisterRoutes(mux)
	logger.Info("Registered authentication routes")
	return h.auth.WrapWithMiddleware(mux)
}
