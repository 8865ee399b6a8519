package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aspen-cloud/fly-admin/internal/auth"
	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// Client implements the fly.Client interface.
type Client struct {
	httpClient *http.Client
	logger     fly.Logger

	// Resource clients
	apps          *AppsClient
	machines      *MachinesClient
	networks      *NetworksClient
	organizations *OrganizationsClient
	secrets       *SecretsClient
	volumes       *VolumesClient
	regions       *RegionsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *fly.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	return httpOpts
}

// New creates a new Fly API client. The config is validated before anything
// else, so a missing API key fails here without any network I/O.
func New(_ context.Context, config *fly.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := config.WithDefaults()

	tokens, err := auth.NewStaticTokenSource(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("creating token source: %w", err)
	}

	httpClient := http.NewClient(cfg.APIURL, cfg.GraphQLURL, tokens, createHTTPClientOptions(&cfg)...)

	client := &Client{
		httpClient: httpClient,
		logger:     cfg.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.apps = NewAppsClient(c.httpClient)
	c.machines = NewMachinesClient(c.httpClient)
	c.networks = NewNetworksClient(c.httpClient)
	c.organizations = NewOrganizationsClient(c.httpClient)
	c.secrets = NewSecretsClient(c.httpClient)
	c.volumes = NewVolumesClient(c.httpClient)
	c.regions = NewRegionsClient(c.httpClient)
}

// GraphQL implements fly.RawClient.GraphQL.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	return c.httpClient.GraphQL(ctx, query, variables, out)
}

// REST implements fly.RawClient.REST. A nil out discards the body.
func (c *Client) REST(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.httpClient.Do(ctx, &http.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

// Resource client accessors

// Apps implements fly.Client.Apps.
func (c *Client) Apps() fly.AppsClient {
	return c.apps
}

// Machines implements fly.Client.Machines.
func (c *Client) Machines() fly.MachinesClient {
	return c.machines
}

// Networks implements fly.Client.Networks.
func (c *Client) Networks() fly.NetworksClient {
	return c.networks
}

// Organizations implements fly.Client.Organizations.
func (c *Client) Organizations() fly.OrganizationsClient {
	return c.organizations
}

// Secrets implements fly.Client.Secrets.
func (c *Client) Secrets() fly.SecretsClient {
	return c.secrets
}

// Volumes implements fly.Client.Volumes.
func (c *Client) Volumes() fly.VolumesClient {
	return c.volumes
}

// Regions implements fly.Client.Regions.
func (c *Client) Regions() fly.RegionsClient {
	return c.regions
}

// loggerAdapter adapts fly.Logger to http.Logger.
type loggerAdapter struct {
	logger fly.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
