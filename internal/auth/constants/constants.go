package constants

const (
	// TokenType for Bearer authentication
	TokenType = "Bearer"

	// RequestIDHeader carries the per-request id
	RequestIDHeader = "X-Request-ID"
)

// Inbound routes
const (
	RouteRoot             = "/"
	RouteHealth           = "/healthz"
	RouteGoogleCallback   = "/callback"
	RouteLinkedInCallback = "/callback_linkedIn"
	RouteAssetLinks       = "/.well-known/assetlinks.json"
)

// Inbound query parameters
const (
	QueryCode         = "code"
	QueryCodeVerifier = "code_verifier"
)

// Deep link paths and parameters
const (
	DeepLinkNewUserPath   = "/auth/signIn"
	DeepLinkReturningPath = "/auth/login"

	DeepLinkUserIDParam = "userId"
	DeepLinkTokenParam  = "token"
)

// Client-facing error messages
const (
	MessageMissingCode = "Authorization code is missing"
	MessageAuthFailed  = "Authentication failed"
	MessageUnknown     = "Unknown error"
)

// WelcomeMessage is served on the root route.
const WelcomeMessage = "🚀 Welcome to Venturloop Backend!"
