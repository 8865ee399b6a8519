package client

import (
	"context"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

const setSecretsMutation = `mutation($input: SetSecretsInput!) {
  setSecrets(input: $input) {
    release {
      id
      version
      reason
      description
      user {
        id
        email
        name
      }
      evaluationId
      createdAt
    }
  }
}`

const unsetSecretsMutation = `mutation($input: UnsetSecretsInput!) {
  unsetSecrets(input: $input) {
    release {
      id
      version
      reason
      description
      user {
        id
        email
        name
      }
      evaluationId
      createdAt
    }
  }
}`

// SecretsClient implements fly.SecretsClient.
type SecretsClient struct {
	httpClient *http.Client
}

// NewSecretsClient creates a new secrets client.
func NewSecretsClient(httpClient *http.Client) *SecretsClient {
	return &SecretsClient{
		httpClient: httpClient,
	}
}

// SetSecrets implements fly.SecretsClient.SetSecrets.
func (c *SecretsClient) SetSecrets(ctx context.Context, input fly.SetSecretsInput) fly.Result[fly.SetSecretsOutput] {
	return graphQLCall[fly.SetSecretsOutput](ctx, c.httpClient, setSecretsMutation, map[string]interface{}{
		"input": input,
	})
}

// UnsetSecrets implements fly.SecretsClient.UnsetSecrets.
func (c *SecretsClient) UnsetSecrets(ctx context.Context, input fly.UnsetSecretsInput) fly.Result[fly.UnsetSecretsOutput] {
	return graphQLCall[fly.UnsetSecretsOutput](ctx, c.httpClient, unsetSecretsMutation, map[string]interface{}{
		"input": input,
	})
}
