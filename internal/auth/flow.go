package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/venturloop/auth-relay/internal/auth/constants"
	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/auth/providers"
	"github.com/venturloop/auth-relay/internal/backend"
	"github.com/venturloop/auth-relay/internal/deeplink"
	"github.com/venturloop/auth-relay/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Backend forwards a provider identity to the account service
type Backend interface {
	Signup(ctx context.Context, provider models.ProviderName, idToken string) (*models.BackendResult, error)
}

// CredentialIssuer mints local credentials
type CredentialIssuer interface {
	Enabled() bool
	Mint(userID, email, name string) (string, error)
}

// Flow exchanges an authorization code, resolves the user, hands the
// identity to the backend and builds the deep link for the mobile client.
type Flow struct {
	backend Backend
	issuer  CredentialIssuer
	links   *deeplink.Builder
}

func NewFlow(b Backend, issuer CredentialIssuer, links *deeplink.Builder) *Flow {
	return &Flow{
		backend: b,
		issuer:  issuer,
		links:   links,
	}
}

// Complete runs the flow for req against p and returns the deep link. Any
// failure aborts the flow and is returned as a *models.Error.
func (f *Flow) Complete(ctx context.Context, p providers.Provider, req models.AuthorizationRequest) (string, error) {
	name := p.Name()
	log := logger.With(zap.String("provider", string(name)))

	fail := func(kind models.Kind, step models.Step, detail string, err error) error {
		fe := &models.Error{Kind: kind, Provider: name, Step: step, Detail: detail, Err: err}
		log.Error("OAuth flow failed",
			zap.String("step", string(step)),
			zap.String("kind", string(kind)),
			zap.String("detail", detail),
			zap.Error(err),
		)
		return fe
	}

	if req.Code == "" {
		return "", fail(models.KindMissingCode, models.StepValidate, constants.MessageMissingCode, nil)
	}

	tokens, err := p.ExchangeCode(ctx, req.Code, req.CodeVerifier)
	if err != nil {
		return "", fail(models.KindTokenExchangeFailed, models.StepExchange, exchangeDetail(err), err)
	}
	log.Debug("Exchanged authorization code", zap.Object("tokens", tokens))

	identity, err := p.ResolveIdentity(ctx, tokens)
	if err != nil {
		kind := models.KindIdentityResolutionFailed
		if errors.Is(err, models.ErrEmailNotFound) {
			kind = models.KindEmailNotFound
		}
		return "", fail(kind, models.StepIdentity, err.Error(), err)
	}

	result, err := f.backend.Signup(ctx, name, tokens.IDToken)
	if err != nil {
		detail := err.Error()
		var rejected *backend.RejectedError
		if errors.As(err, &rejected) {
			detail = rejected.Message
		}
		return "", fail(models.KindBackendRejected, models.StepBackend, detail, err)
	}

	token, err := f.credential(result, identity)
	if err != nil {
		return "", fail(models.KindInternal, models.StepSign, "failed to issue credential", err)
	}

	path := constants.DeepLinkReturningPath
	if result.IsNewUser {
		path = constants.DeepLinkNewUserPath
	}

	params := []deeplink.Param{{Key: constants.DeepLinkUserIDParam, Value: result.ID()}}
	if token != "" {
		params = append(params, deeplink.Param{Key: constants.DeepLinkTokenParam, Value: token})
	}

	link, err := f.links.Build(path, params...)
	if err != nil {
		return "", fail(models.KindInternal, models.StepRedirect, "failed to build redirect", err)
	}

	log.Info("OAuth flow completed",
		zap.String("path", path),
		zap.Bool("is_new_user", result.IsNewUser),
		zap.Bool("has_token", token != ""),
	)
	return link, nil
}

// credential prefers the backend-issued token over a locally minted one.
func (f *Flow) credential(result *models.BackendResult, identity *models.Identity) (string, error) {
	if result.Token != "" {
		return result.Token, nil
	}
	if f.issuer == nil || !f.issuer.Enabled() {
		return "", nil
	}
	return f.issuer.Mint(identity.Subject, identity.Email, identity.Name)
}

// exchangeDetail picks the provider's own explanation of a failed exchange.
func exchangeDetail(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch {
		case re.ErrorDescription != "":
			return re.ErrorDescription
		case re.ErrorCode != "":
			return re.ErrorCode
		case len(re.Body) > 0:
			return strings.TrimSpace(string(re.Body))
		}
	}
	return err.Error()
}
