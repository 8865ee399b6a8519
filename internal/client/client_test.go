package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ map[string]interface{})  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.record(msg) }

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty API key fails before any request", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		client, err := New(context.Background(), &fly.Config{APIURL: server.URL, GraphQLURL: server.URL})
		require.Error(t, err)
		assert.Nil(t, client)
		assert.True(t, errors.Is(err, fly.ErrAPIKeyRequired))
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, fly.ErrConfigRequired))
	})

	t.Run("every problem is reported", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &fly.Config{GraphQLURL: "ftp://example.com", APIURL: "://bad"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, fly.ErrAPIKeyRequired))
		assert.True(t, errors.Is(err, fly.ErrUnsupportedScheme))
		assert.True(t, errors.Is(err, fly.ErrInvalidURL))
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &fly.Config{APIKey: testAPIKey})
		require.NoError(t, err)
		assert.Equal(t, fly.DefaultAPIURL, client.httpClient.APIURL())
		assert.Equal(t, fly.DefaultGraphQLURL, client.httpClient.GraphQLURL())
		assert.NotNil(t, client.Apps())
		assert.NotNil(t, client.Machines())
		assert.NotNil(t, client.Networks())
		assert.NotNil(t, client.Organizations())
		assert.NotNil(t, client.Secrets())
		assert.NotNil(t, client.Volumes())
		assert.NotNil(t, client.Regions())
	})
}

func TestClient_SeparateEndpoints(t *testing.T) {
	t.Parallel()

	restServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/apps/my-app", request.URL.Path)
		_, _ = io.WriteString(writer, `{"name":"my-app","status":"pending","organization":{"name":"Acme","slug":"acme"}}`)
	}))
	defer restServer.Close()

	gqlServer := graphQLServer(t, nil, `{"data":{"organization":{"id":"o","slug":"acme","name":"Acme","type":"PERSONAL","viewerRole":"member"}}}`)

	client, err := New(context.Background(), &fly.Config{
		APIKey:     testAPIKey,
		APIURL:     restServer.URL,
		GraphQLURL: gqlServer.URL,
	})
	require.NoError(t, err)

	app := client.Apps().GetApp(context.Background(), "my-app")
	require.Nil(t, app.Error)
	assert.Equal(t, fly.AppStatusPending, app.Data.Status)

	org := client.Organizations().GetOrganization(context.Background(), "acme")
	require.Nil(t, org.Error)
	assert.Equal(t, fly.ViewerRoleMember, org.Data.Organization.ViewerRole)
}

func TestClient_REST(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/v1/apps/my-app/certificates":
			assert.Equal(t, "GET", request.Method)
			_, _ = io.WriteString(writer, `[{"hostname":"example.com"}]`)
		default:
			writer.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(writer, "forbidden")
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	var certificates []map[string]string

	err := client.REST(context.Background(), "GET", "apps/my-app/certificates", nil, &certificates)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"hostname": "example.com"}}, certificates)

	err = client.REST(context.Background(), "DELETE", "apps/other", nil, nil)
	require.Error(t, err)

	var httpErr *fly.HTTPError

	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "forbidden", string(httpErr.Body))
	assert.True(t, fly.IsForbidden(err))
}

func TestClient_GraphQL(t *testing.T) {
	t.Parallel()

	t.Run("decodes data", func(t *testing.T) {
		t.Parallel()

		server := graphQLServer(t, func(body graphQLRequestBody) {
			assert.Equal(t, "query { viewer { email } }", body.Query)
		}, `{"data":{"viewer":{"email":"ops@example.com"}}}`)

		client := newTestClient(t, server.URL)

		var out struct {
			Viewer struct {
				Email string `json:"email"`
			} `json:"viewer"`
		}

		err := client.GraphQL(context.Background(), "query { viewer { email } }", nil, &out)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", out.Viewer.Email)
	})

	t.Run("typed errors", func(t *testing.T) {
		t.Parallel()

		server := graphQLServer(t, nil, `{"data":{"viewer":{"email":"x"}},"errors":[{"message":"first"},{"message":"second"}]}`)

		client := newTestClient(t, server.URL)

		var out map[string]interface{}

		err := client.GraphQL(context.Background(), "query { viewer { email } }", nil, &out)
		require.Error(t, err)

		var gqlErr *fly.GraphQLError

		require.ErrorAs(t, err, &gqlErr)
		assert.Equal(t, []string{"first", "second"}, gqlErr.Messages())
		assert.Equal(t, `[{"message":"first"},{"message":"second"}]`, gqlErr.Error())
		assert.Nil(t, out)
	})
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "fly-admin-test", request.Header.Get("User-Agent"))
		_, _ = io.WriteString(writer, `{"name":"my-app"}`)
	}))
	defer server.Close()

	logger := &recordingLogger{}

	client, err := New(context.Background(), &fly.Config{
		APIKey:     testAPIKey,
		APIURL:     server.URL,
		GraphQLURL: server.URL,
		UserAgent:  "fly-admin-test",
		Debug:      true,
		Logger:     logger,
	})
	require.NoError(t, err)

	result := client.Apps().GetApp(context.Background(), "my-app")
	require.Nil(t, result.Error)
	assert.Equal(t, []string{"HTTP Request", "HTTP Response"}, logger.messages)
}

func TestClient_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"name":"`+request.URL.Path[len("/v1/apps/"):]+`"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup

	results := make([]fly.Result[fly.App], len(names))
	for i, name := range names {
		wg.Add(1)

		go func(i int, name string) {
			defer wg.Done()

			results[i] = client.Apps().GetApp(context.Background(), name)
		}(i, name)
	}

	wg.Wait()

	for i, result := range results {
		require.Nil(t, result.Error)
		assert.Equal(t, names[i], result.Data.Name)
	}
}
