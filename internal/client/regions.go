package client

import (
	"context"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

const getRegionsQuery = `query {
  platform {
    requestRegion
    regions {
      name
      code
      latitude
      longitude
      gatewayAvailable
      requiresPaidPlan
    }
  }
}`

// RegionsClient implements fly.RegionsClient.
type RegionsClient struct {
	httpClient *http.Client
}

// NewRegionsClient creates a new regions client.
func NewRegionsClient(httpClient *http.Client) *RegionsClient {
	return &RegionsClient{
		httpClient: httpClient,
	}
}

// GetRegions implements fly.RegionsClient.GetRegions.
func (c *RegionsClient) GetRegions(ctx context.Context) fly.Result[fly.GetRegionsOutput] {
	return graphQLCall[fly.GetRegionsOutput](ctx, c.httpClient, getRegionsQuery, nil)
}
