package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

func TestAppsClient_GetApp(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/apps/my-app", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(writer, `{"name":"my-app","status":"deployed","organization":{"name":"Acme","slug":"acme"}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result := client.Apps().GetApp(context.Background(), "my-app")
	require.Nil(t, result.Error)
	require.NotNil(t, result.Data)
	assert.Equal(t, fly.App{
		Name:         "my-app",
		Status:       fly.AppStatusDeployed,
		Organization: fly.OrganizationRef{Name: "Acme", Slug: "acme"},
	}, *result.Data)
}

func TestAppsClient_GetApp_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/apps/missing-app", request.URL.Path)
		writer.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(writer, "app not found")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result := client.Apps().GetApp(context.Background(), "missing-app")
	assert.Nil(t, result.Data)
	require.NotNil(t, result.Error)
	assert.Equal(t, &fly.APIError{Status: http.StatusNotFound, Message: "app not found"}, result.Error)
	assert.True(t, fly.IsNotFound(result.Err()))
}

func TestAppsClient_GetApp_NetworkFailure(t *testing.T) {
	t.Parallel()

	serverURL := closedServerURL(t)
	client := newTestClient(t, serverURL)

	result := client.Apps().GetApp(context.Background(), "my-app")
	assert.Nil(t, result.Data)
	require.NotNil(t, result.Error)
	assert.Equal(t, http.StatusInternalServerError, result.Error.Status)

	// The transport error keeps net/http's message behind a short prefix.
	prefix := `executing request: Get "` + serverURL + `/v1/apps/my-app": dial tcp `
	assert.True(t, strings.HasPrefix(result.Error.Message, prefix), result.Error.Message)
}

func TestAppsClient_ListApps(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/apps", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "acme", request.URL.Query().Get("org_slug"))

		_, _ = io.WriteString(writer, `{"total_apps":2,"apps":[
			{"name":"app-1","machine_count":3,"network":"default"},
			{"name":"app-2","machine_count":0,"network":"custom"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result := client.Apps().ListApps(context.Background(), "acme")
	require.Nil(t, result.Error)
	assert.Equal(t, 2, result.Data.TotalApps)
	require.Len(t, result.Data.Apps, 2)
	assert.Equal(t, fly.AppSummary{Name: "app-1", MachineCount: 3, Network: "default"}, result.Data.Apps[0])
	assert.Equal(t, "app-2", result.Data.Apps[1].Name)
}

func TestAppsClient_GetAppDetailed(t *testing.T) {
	t.Parallel()

	server := graphQLServer(t, func(body graphQLRequestBody) {
		assert.Contains(t, body.Query, "app(name: $name)")
		assert.Equal(t, map[string]interface{}{"name": "my-app"}, body.Variables)
	}, `{"data":{"app":{
		"name":"my-app",
		"status":"deployed",
		"organization":{"name":"Acme","slug":"acme"},
		"ipAddresses":{"nodes":[{"type":"v4","region":"global","address":"1.2.3.4"},{"type":"v6","region":"global","address":"::1"}]},
		"machines":{"nodes":[{"id":"m1","name":"web","state":"started","region":"ord"}]}
	}}}`)

	client := newTestClient(t, server.URL)

	result := client.Apps().GetAppDetailed(context.Background(), "my-app")
	require.Nil(t, result.Error)
	require.NotNil(t, result.Data)

	assert.Equal(t, "my-app", result.Data.Name)
	assert.Equal(t, fly.AppStatusDeployed, result.Data.Status)
	assert.Equal(t, "acme", result.Data.Organization.Slug)
	assert.Equal(t, []fly.AppMachine{{ID: "m1", Name: "web", State: "started", Region: "ord"}}, result.Data.Machines)
	assert.Equal(t, []fly.IPAddress{
		{Type: fly.IPAddressTypeV4, Region: "global", Address: "1.2.3.4"},
		{Type: fly.IPAddressTypeV6, Region: "global", Address: "::1"},
	}, result.Data.IPAddresses)
}

func TestAppsClient_GetAppDetailed_GraphQLErrors(t *testing.T) {
	t.Parallel()

	server := graphQLServer(t, nil,
		`{"data":{"app":null},"errors":[{"message":"Could not find App \"my-app\"","path":["app"]}]}`)

	client := newTestClient(t, server.URL)

	result := client.Apps().GetAppDetailed(context.Background(), "my-app")
	assert.Nil(t, result.Data)
	require.NotNil(t, result.Error)
	assert.Equal(t, http.StatusInternalServerError, result.Error.Status)
	assert.Equal(t, `[{"message":"Could not find App \"my-app\"","path":["app"]}]`, result.Error.Message)
}

func TestAppsClient_GetAppDetailed_HTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(writer, `{"errors":[{"message":"unauthorized"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result := client.Apps().GetAppDetailed(context.Background(), "my-app")
	require.NotNil(t, result.Error)
	assert.Equal(t, http.StatusUnauthorized, result.Error.Status)
	assert.Equal(t, `{"errors":[{"message":"unauthorized"}]}`, result.Error.Message)
}

func TestAppsClient_GetAppDetailed_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := graphQLServer(t, nil, `<html>bad gateway</html>`)

	client := newTestClient(t, server.URL)

	result := client.Apps().GetAppDetailed(context.Background(), "my-app")
	require.NotNil(t, result.Error)
	assert.Equal(t, http.StatusInternalServerError, result.Error.Status)
	assert.Contains(t, result.Error.Message, "parsing GraphQL response")
}

func TestAppsClient_GetAppDetailed_MissingWrapper(t *testing.T) {
	t.Parallel()

	server := graphQLServer(t, nil,
		`{"data":{"app":{"name":"my-app","status":"pending","organization":{"name":"Acme","slug":"acme"}}}}`)

	client := newTestClient(t, server.URL)

	result := client.Apps().GetAppDetailed(context.Background(), "my-app")
	require.Nil(t, result.Error)
	assert.Equal(t, "my-app", result.Data.Name)
	assert.Nil(t, result.Data.Machines)
	assert.Nil(t, result.Data.IPAddresses)
}

func TestAppsClient_ListAppsDetailed(t *testing.T) {
	t.Parallel()

	server := graphQLServer(t, func(body graphQLRequestBody) {
		assert.Contains(t, body.Query, "organization(slug: $slug)")
		assert.Equal(t, map[string]interface{}{"slug": "acme"}, body.Variables)
	}, `{"data":{"organization":{"apps":{"nodes":[
		{"name":"first","status":"deployed","organization":{"name":"Acme","slug":"acme"},
		 "ipAddresses":{"nodes":[]},
		 "machines":{"nodes":[{"id":"a1","name":"a1","state":"started","region":"ams"},{"id":"a2","name":"a2","state":"stopped","region":"ord"}]}},
		{"name":"second","status":"suspended","organization":{"name":"Acme","slug":"acme"},
		 "ipAddresses":{"nodes":[{"type":"shared_v4","region":"global","address":"66.241.124.1"}]},
		 "machines":{"nodes":[]}}
	]}}}}`)

	client := newTestClient(t, server.URL)

	result := client.Apps().ListAppsDetailed(context.Background(), "acme")
	require.Nil(t, result.Error)
	require.Len(t, result.Data.Apps, 2)

	first := result.Data.Apps[0]
	assert.Equal(t, "first", first.Name)
	assert.Empty(t, first.IPAddresses)
	require.Len(t, first.Machines, 2)
	assert.Equal(t, "a1", first.Machines[0].ID)
	assert.Equal(t, "a2", first.Machines[1].ID)

	second := result.Data.Apps[1]
	assert.Equal(t, fly.AppStatusSuspended, second.Status)
	assert.Equal(t, []fly.IPAddress{{Type: fly.IPAddressTypeSharedV4, Region: "global", Address: "66.241.124.1"}}, second.IPAddresses)
	assert.Empty(t, second.Machines)
}

func TestAppsClient_Mutations(t *testing.T) {
	t.Parallel()

	RunRESTExpectations(t, []RESTExpectation{
		{
			Name:   "create app",
			Method: "POST",
			Path:   "/v1/apps",
			Body: map[string]interface{}{
				"org_slug": "acme",
				"app_name": "my-app",
			},
			StatusCode: http.StatusCreated,
			Call: func(ctx context.Context, client *Client) *fly.APIError {
				result := client.Apps().CreateApp(ctx, &fly.CreateAppRequest{OrgSlug: "acme", AppName: "my-app"})
				assert.NotNil(t, result.Data)

				return result.Error
			},
		},
		{
			Name:   "create app with network",
			Method: "POST",
			Path:   "/v1/apps",
			Body: map[string]interface{}{
				"org_slug": "acme",
				"app_name": "my-app",
				"network":  "private",
			},
			StatusCode: http.StatusCreated,
			Call: func(ctx context.Context, client *Client) *fly.APIError {
				return client.Apps().CreateApp(ctx, &fly.CreateAppRequest{
					OrgSlug: "acme",
					AppName: "my-app",
					Network: "private",
				}).Error
			},
		},
		{
			Name:         "delete app",
			Method:       "DELETE",
			Path:         "/v1/apps/my-app",
			StatusCode:   http.StatusAccepted,
			ExpectNoBody: true,
			Call: func(ctx context.Context, client *Client) *fly.APIError {
				result := client.Apps().DeleteApp(ctx, "my-app")
				assert.NotNil(t, result.Data)

				return result.Error
			},
		},
		{
			Name:        "create app conflict",
			Method:      "POST",
			Path:        "/v1/apps",
			StatusCode:  http.StatusUnprocessableEntity,
			Response:    `{"error":"app name taken"}`,
			WantErr:     true,
			WantStatus:  http.StatusUnprocessableEntity,
			WantMessage: `{"error":"app name taken"}`,
			Call: func(ctx context.Context, client *Client) *fly.APIError {
				result := client.Apps().CreateApp(ctx, &fly.CreateAppRequest{OrgSlug: "acme", AppName: "taken"})
				assert.Nil(t, result.Data)

				return result.Error
			},
		},
	})
}

func TestAppsClient_ListApps_EscapesOrgSlug(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, url.Values{"org_slug": []string{"a&b"}}, request.URL.Query())
		_, _ = io.WriteString(writer, `{"total_apps":0,"apps":[]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result := client.Apps().ListApps(context.Background(), "a&b")
	require.Nil(t, result.Error)
	assert.Equal(t, 0, result.Data.TotalApps)
}
