package client

import (
	"context"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

const getOrganizationQuery = `query($slug: String!) {
  organization(slug: $slug) {
    id
    slug
    name
    type
    viewerRole
  }
}`

// OrganizationsClient implements fly.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *http.Client
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *http.Client) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
	}
}

// GetOrganization implements fly.OrganizationsClient.GetOrganization.
func (c *OrganizationsClient) GetOrganization(ctx context.Context, slug string) fly.Result[fly.GetOrganizationOutput] {
	return graphQLCall[fly.GetOrganizationOutput](ctx, c.httpClient, getOrganizationQuery, map[string]interface{}{
		"slug": slug,
	})
}
