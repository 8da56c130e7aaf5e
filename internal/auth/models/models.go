package models

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// ProviderName identifies an OAuth provider.
type ProviderName string

const (
	ProviderGoogle   ProviderName = "google"
	ProviderLinkedIn ProviderName = "linkedin"
)

// AuthorizationRequest is the inbound redirect from a provider.
type AuthorizationRequest struct {
	Provider     ProviderName
	Code         string
	CodeVerifier string
}

// TokenSet is the result of a code exchange. It never prints its tokens.
type TokenSet struct {
	AccessToken string
	IDToken     string
	TokenType   string
	Expiry      time.Time
}

func (t *TokenSet) String() string {
	return fmt.Sprintf("TokenSet{type=%s, id_token=%t, expiry=%s}", t.TokenType, t.IDToken != "", t.Expiry.Format(time.RFC3339))
}

// MarshalLogObject logs token metadata only.
func (t *TokenSet) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("token_type", t.TokenType)
	enc.AddBool("has_id_token", t.IDToken != "")
	if !t.Expiry.IsZero() {
		enc.AddTime("expiry", t.Expiry)
	}
	return nil
}

// Identity represents the user as reported by a provider
type Identity struct {
	Subject    string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
}

// BackendResult is the upstream backend's answer to a signup call.
type BackendResult struct {
	UserID     string // backend _id
	ExternalID string // backend userId
	Email      string
	Name       string
	IsNewUser  bool
	Token      string
}

// ID returns the identifier handed to the mobile client.
func (r *BackendResult) ID() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.ExternalID
}
