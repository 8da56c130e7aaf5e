// Package backend talks to the Venturloop identity backend, which owns user records.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/venturloop/auth-relay/internal/auth/constants"
	"github.com/venturloop/auth-relay/internal/auth/models"
	"github.com/venturloop/auth-relay/internal/config"
	"github.com/venturloop/auth-relay/internal/requester"
)

// ErrMissingUserID is returned when a successful signup response has no user id.
var ErrMissingUserID = errors.New("backend response missing user id")

// RejectedError is a non-2xx answer from the backend.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

type signupResponse struct {
	User struct {
		ID     string `json:"_id"`
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Name   string `json:"name"`
	} `json:"user"`
	IsNewUser bool   `json:"isNewUser"`
	Token     string `json:"token"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client forwards provider identities to the backend signup endpoints
type Client struct {
	requester *requester.HTTPRequester
	baseURL   string
	paths     map[models.ProviderName]string
}

// NewClient creates a backend client rooted at baseURL
func NewClient(r *requester.HTTPRequester, baseURL, googlePath, linkedInPath string) *Client {
	return &Client{
		requester: r,
		baseURL:   strings.TrimRight(baseURL, "/"),
		paths: map[models.ProviderName]string{
			models.ProviderGoogle:   googlePath,
			models.ProviderLinkedIn: linkedInPath,
		},
	}
}

// NewClientFromConfig is the fx constructor.
func NewClientFromConfig(cfg *config.Config, r *requester.HTTPRequester) *Client {
	return NewClient(r, cfg.Backend.BaseURL, cfg.Backend.GoogleSignupPath, cfg.Backend.LinkedInSignupPath)
}

// signupPayload builds the body the backend expects for provider. The two
// endpoints disagree on the field name.
func signupPayload(provider models.ProviderName, idToken string) (interface{}, error) {
	switch provider {
	case models.ProviderGoogle:
		return struct {
			IDToken string `json:"idToken"`
		}{idToken}, nil
	case models.ProviderLinkedIn:
		return struct {
			IDToken string `json:"id_token"`
		}{idToken}, nil
	default:
		return nil, fmt.Errorf("no signup endpoint for provider %q", provider)
	}
}

// Signup forwards the provider ID token and returns the backend's view of the user.
func (c *Client) Signup(ctx context.Context, provider models.ProviderName, idToken string) (*models.BackendResult, error) {
	payload, err := signupPayload(provider, idToken)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.JoinPath(c.baseURL, c.paths[provider])
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	resp, err := c.requester.PostJSON(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		msg := constants.MessageUnknown
		var body errorResponse
		if err := json.Unmarshal(resp.Body, &body); err == nil {
			switch {
			case body.Error != "":
				msg = body.Error
			case body.Message != "":
				msg = body.Message
			}
		}
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: msg}
	}

	var body signupResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}

	result := &models.BackendResult{
		UserID:     body.User.ID,
		ExternalID: body.User.UserID,
		Email:      body.User.Email,
		Name:       body.User.Name,
		IsNewUser:  body.IsNewUser,
		Token:      body.Token,
	}
	if result.ID() == "" {
		return nil, ErrMissingUserID
	}
	return result, nil
}
