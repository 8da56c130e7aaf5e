// Package deeplink builds custom-scheme redirect URLs for the mobile client.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/venturloop/auth-relay/internal/config"
)

var (
	ErrEmptyScheme = errors.New("deeplink: scheme is required")
	ErrEmptyKey    = errors.New("deeplink: parameter key is required")
)

// Param is one query parameter. Order is preserved in the built link.
type Param struct {
	Key   string
	Value string
}

// Builder produces links of the form scheme://host/path?k=v&...
// Every key and value is percent-encoded; callers never concatenate raw strings.
type Builder struct {
	scheme string
	host   string
}

func NewBuilder(scheme, host string) (*Builder, error) {
	scheme = strings.TrimSuffix(scheme, "://")
	if scheme == "" {
		return nil, ErrEmptyScheme
	}
	return &Builder{scheme: scheme, host: host}, nil
}

// NewBuilderFromConfig is the fx constructor.
func NewBuilderFromConfig(cfg *config.Config) (*Builder, error) {
	return NewBuilder(cfg.DeepLink.Scheme, cfg.DeepLink.Host)
}

// Scheme returns the scheme without the "://" separator.
func (b *Builder) Scheme() string {
	return b.scheme
}

// Build returns the link for path with params appended in order.
func (b *Builder) Build(path string, params ...Param) (string, error) {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var query strings.Builder
	for i, p := range params {
		if p.Key == "" {
			return "", fmt.Errorf("%w (position %d)", ErrEmptyKey, i)
		}
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(escape(p.Key))
		query.WriteByte('=')
		query.WriteString(escape(p.Value))
	}

	u := url.URL{
		Scheme:   b.scheme,
		Host:     b.host,
		Path:     path,
		RawQuery: query.String(),
	}
	return u.String(), nil
}

// escape percent-encodes s for a query component. A space becomes %20, never "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
