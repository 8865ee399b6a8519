package client

import (
	"context"
	"net/url"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

const getOrganizationAppsQuery = `query($slug: String!) {
  organization(slug: $slug) {
    apps {
      nodes {
        name
        status
        organization {
          name
          slug
        }
        ipAddresses {
          nodes {
            type
            region
            address
          }
        }
        machines {
          nodes {
            id
            name
            state
            region
          }
        }
      }
    }
  }
}`

const getAppQuery = `query($name: String!) {
  app(name: $name) {
    name
    status
    organization {
      name
      slug
    }
    ipAddresses {
      nodes {
        type
        region
        address
      }
    }
    machines {
      nodes {
        id
        name
        state
        region
      }
    }
  }
}`

type organizationAppsData struct {
	Organization *wireOrganizationApps `json:"organization"`
}

type appData struct {
	App *wireApp `json:"app"`
}

// AppsClient implements fly.AppsClient.
type AppsClient struct {
	httpClient *http.Client
}

// NewAppsClient creates a new apps client.
func NewAppsClient(httpClient *http.Client) *AppsClient {
	return &AppsClient{
		httpClient: httpClient,
	}
}

// ListApps implements fly.AppsClient.ListApps.
func (c *AppsClient) ListApps(ctx context.Context, orgSlug string) fly.Result[fly.ListAppsResponse] {
	return restCall[fly.ListAppsResponse](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   "apps",
		Query:  url.Values{"org_slug": []string{orgSlug}},
	})
}

// ListAppsDetailed implements fly.AppsClient.ListAppsDetailed. Every node
// wrapper in the organization's app tree is flattened.
func (c *AppsClient) ListAppsDetailed(ctx context.Context, orgSlug string) fly.Result[fly.ListAppsDetailedResponse] {
	result := graphQLCall[organizationAppsData](ctx, c.httpClient, getOrganizationAppsQuery, map[string]interface{}{
		"slug": orgSlug,
	})

	return fly.Map(result, func(data *organizationAppsData) *fly.ListAppsDetailedResponse {
		if data.Organization == nil {
			return &fly.ListAppsDetailedResponse{}
		}

		apps := data.Organization.toDomain()

		return &apps
	})
}

// GetApp implements fly.AppsClient.GetApp.
func (c *AppsClient) GetApp(ctx context.Context, appName string) fly.Result[fly.App] {
	return restCall[fly.App](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath("apps", appName),
	})
}

// GetAppDetailed implements fly.AppsClient.GetAppDetailed.
func (c *AppsClient) GetAppDetailed(ctx context.Context, appName string) fly.Result[fly.AppDetailed] {
	result := graphQLCall[appData](ctx, c.httpClient, getAppQuery, map[string]interface{}{
		"name": appName,
	})

	return fly.Map(result, func(data *appData) *fly.AppDetailed {
		if data.App == nil {
			return &fly.AppDetailed{}
		}

		app := data.App.toDomain()

		return &app
	})
}

// CreateApp implements fly.AppsClient.CreateApp.
func (c *AppsClient) CreateApp(ctx context.Context, request *fly.CreateAppRequest) fly.Result[fly.Empty] {
	return restEmpty(ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   "apps",
		Body:   request,
	})
}

// DeleteApp implements fly.AppsClient.DeleteApp.
func (c *AppsClient) DeleteApp(ctx context.Context, appName string) fly.Result[fly.Empty] {
	return restEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath("apps", appName),
	})
}
