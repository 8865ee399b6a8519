package client

import (
	"context"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

const allocateIPAddressMutation = `mutation($input: AllocateIPAddressInput!) {
  allocateIpAddress(input: $input) {
    ipAddress {
      id
      address
      type
      region
      createdAt
    }
  }
}`

const releaseIPAddressMutation = `mutation($input: ReleaseIPAddressInput!) {
  releaseIpAddress(input: $input) {
    app {
      name
    }
  }
}`

// NetworksClient implements fly.NetworksClient.
type NetworksClient struct {
	httpClient *http.Client
}

// NewNetworksClient creates a new networks client.
func NewNetworksClient(httpClient *http.Client) *NetworksClient {
	return &NetworksClient{
		httpClient: httpClient,
	}
}

// AllocateIPAddress implements fly.NetworksClient.AllocateIPAddress.
func (c *NetworksClient) AllocateIPAddress(ctx context.Context, input fly.AllocateIPAddressInput) fly.Result[fly.AllocateIPAddressOutput] {
	return graphQLCall[fly.AllocateIPAddressOutput](ctx, c.httpClient, allocateIPAddressMutation, map[string]interface{}{
		"input": input,
	})
}

// ReleaseIPAddress implements fly.NetworksClient.ReleaseIPAddress. Either
// IPAddressID or AppID together with IP identifies the address.
func (c *NetworksClient) ReleaseIPAddress(ctx context.Context, input fly.ReleaseIPAddressInput) fly.Result[fly.ReleaseIPAddressOutput] {
	return graphQLCall[fly.ReleaseIPAddressOutput](ctx, c.httpClient, releaseIPAddressMutation, map[string]interface{}{
		"input": input,
	})
}
