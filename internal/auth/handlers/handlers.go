package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/venturloop/auth-relay/internal/auth/constants"
	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/auth/providers"
	"github.com/venturloop/auth-relay/internal/logger"
	"github.com/venturloop/auth-relay/internal/utils"
	"go.uber.org/zap"
)

// Completer runs the OAuth exchange and hand-off for one request
type Completer interface {
	Complete(ctx context.Context, p providers.Provider, req models.AuthorizationRequest) (string, error)
}

// Handler handles the provider callbacks
type Handler struct {
	flow     Completer
	registry *providers.Registry
}

// NewHandler creates a new Handler instance
func NewHandler(flow Completer, registry *providers.Registry) *Handler {
	return &Handler{
		flow:     flow,
		registry: registry,
	}
}

// HandleRoot serves the welcome message on "/" and 404 elsewhere
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != constants.RouteRoot {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(constants.WelcomeMessage))
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AssetLinks serves the Digital Asset Links file at path, read on each request.
func AssetLinks(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Asset links file unavailable", zap.String("path", path), zap.Error(err))
			utils.WriteError(w, http.StatusNotFound, utils.ErrorBody{Error: "Not found"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

// HandleGoogleCallback handles the redirect from Google
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, models.ProviderGoogle)
}

// HandleLinkedInCallback handles the redirect from LinkedIn
func (h *Handler) HandleLinkedInCallback(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, models.ProviderLinkedIn)
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request, name models.ProviderName) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider, err := h.registry.Get(name)
	if err != nil {
		logger.Warn("Callback for disabled provider", zap.String("provider", string(name)))
		utils.WriteError(w, http.StatusNotFound, utils.ErrorBody{Error: err.Error()})
		return
	}

	query := r.URL.Query()
	req := models.AuthorizationRequest{
		Provider:     name,
		Code:         query.Get(constants.QueryCode),
		CodeVerifier: query.Get(constants.QueryCodeVerifier),
	}

	link, err := h.flow.Complete(r.Context(), provider, req)
	if err != nil {
		writeFlowError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, link, http.StatusFound)
}

func writeFlowError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	body := utils.ErrorBody{Error: constants.MessageAuthFailed, Kind: string(kind)}

	var fe *models.Error
	if errors.As(err, &fe) && kind != models.KindMissingCode {
		body.Details = fe.Detail
	}
	if kind == models.KindMissingCode {
		body.Error = constants.MessageMissingCode
	}

	utils.WriteError(w, kind.HTTPStatus(), body)
}
