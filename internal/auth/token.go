// Package auth provides the token source used to authorize platform calls.
package auth

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// BearerTokenType is the scheme sent in the Authorization header.
const BearerTokenType = "Bearer"

// NewStaticTokenSource returns a token source that always yields apiKey as a
// bearer token. An empty key is a configuration error.
func NewStaticTokenSource(apiKey string) (oauth2.TokenSource, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fly.ErrAPIKeyRequired
	}

	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   BearerTokenType,
	}), nil
}
