// Package flyclient provides the main entry point for creating Fly.io API clients
package flyclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/aspen-cloud/fly-admin/internal/client"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// New creates a new Fly.io API client. Empty endpoints fall back to the
// production GraphQL and Machines API hosts; the config is not modified.
func New(ctx context.Context, config *fly.Config) (fly.Client, error) {
	if config == nil {
		return nil, fly.ErrConfigRequired
	}

	cfg := config.WithDefaults()
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.APIURL = normalizeEndpoint(cfg.APIURL)
	cfg.GraphQLURL = normalizeEndpoint(cfg.GraphQLURL)

	client, err := client.New(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// normalizeEndpoint trims a trailing slash and assumes https for bare hosts.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithToken creates a new client for the production endpoints.
func NewWithToken(ctx context.Context, apiKey string) (fly.Client, error) {
	return New(ctx, &fly.Config{
		APIKey: apiKey,
	})
}

// NewWithEndpoints creates a new client with overridden endpoints, for example
// a local Machines API proxy.
func NewWithEndpoints(ctx context.Context, apiKey, graphqlURL, apiURL string) (fly.Client, error) {
	return New(ctx, &fly.Config{
		APIKey:     apiKey,
		GraphQLURL: graphqlURL,
		APIURL:     apiURL,
	})
}
