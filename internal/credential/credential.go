// Package credential mints the application credential handed to the mobile
// client when the backend does not issue one.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/venturloop/auth-relay/internal/config"
)

// DefaultTTL is the validity of a minted credential.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrDisabled     = errors.New("credential: no signing secret configured")
	ErrInvalidToken = errors.New("credential: invalid token")
)

// Claims is the payload of a minted credential.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Issuer signs credentials with a process-wide HS256 secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. An empty secret yields a disabled issuer.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewIssuerFromConfig is the fx constructor.
func NewIssuerFromConfig(cfg *config.Config) *Issuer {
	return NewIssuer(cfg.Credential.Secret, cfg.Credential.TTL)
}

// Enabled reports whether the issuer can mint.
func (i *Issuer) Enabled() bool {
	return len(i.secret) > 0
}

// Mint signs a credential for the given user.
func (i *Issuer) Mint(userID, email, name string) (string, error) {
	if !i.Enabled() {
		return "", ErrDisabled
	}
	now := i.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenStr and returns its claims.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
