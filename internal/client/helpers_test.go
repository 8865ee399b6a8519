package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

const testAPIKey = "test-token"

// newTestClient creates a client whose REST and GraphQL endpoints both point
// at the given server.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	client, err := New(context.Background(), &fly.Config{
		APIKey:     testAPIKey,
		APIURL:     serverURL,
		GraphQLURL: serverURL,
	})
	require.NoError(t, err)

	return client
}

// graphQLRequestBody is the decoded body of a GraphQL POST.
type graphQLRequestBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func decodeGraphQLRequest(t *testing.T, request *http.Request) graphQLRequestBody {
	t.Helper()

	assert.Equal(t, "/graphql", request.URL.Path)
	assert.Equal(t, "POST", request.Method)
	assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get("Authorization"))
	assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

	var body graphQLRequestBody

	err := json.NewDecoder(request.Body).Decode(&body)
	assert.NoError(t, err)

	return body
}

// graphQLServer answers every GraphQL request with the given raw body after
// handing the decoded request to inspect.
func graphQLServer(t *testing.T, inspect func(graphQLRequestBody), rawResponse string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body := decodeGraphQLRequest(t, request)
		if inspect != nil {
			inspect(body)
		}

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(writer, rawResponse)
	}))
	t.Cleanup(server.Close)

	return server
}

// RESTExpectation describes one REST call an accessor must produce.
type RESTExpectation struct {
	Name         string
	Method       string
	Path         string
	Query        url.Values
	Headers      map[string]string
	Body         map[string]interface{}
	StatusCode   int
	Response     string
	Call         func(context.Context, *Client) *fly.APIError
	WantErr      bool
	WantStatus   int
	WantMessage  string
	ExpectNoBody bool
}

// RunRESTExpectations checks method, path, query, headers and body of every
// expectation against a fresh server.
func RunRESTExpectations(t *testing.T, tests []RESTExpectation) {
	t.Helper()

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.Method, request.Method)
				assert.Equal(t, testCase.Path, request.URL.Path)
				assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get("Authorization"))

				if testCase.Query != nil {
					assert.Equal(t, testCase.Query, request.URL.Query())
				} else {
					assert.Empty(t, request.URL.RawQuery)
				}

				for key, value := range testCase.Headers {
					assert.Equal(t, value, request.Header.Get(key))
				}

				payload, err := io.ReadAll(request.Body)
				assert.NoError(t, err)

				if testCase.Body != nil {
					var body map[string]interface{}
					assert.NoError(t, json.Unmarshal(payload, &body))
					assert.Equal(t, testCase.Body, body)
				}

				if testCase.ExpectNoBody {
					assert.Empty(t, payload)
				}

				status := testCase.StatusCode
				if status == 0 {
					status = http.StatusOK
				}

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(status)
				_, _ = io.WriteString(writer, testCase.Response)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			apiErr := testCase.Call(context.Background(), client)

			if testCase.WantErr {
				require.NotNil(t, apiErr)
				assert.Equal(t, testCase.WantStatus, apiErr.Status)

				if testCase.WantMessage != "" {
					assert.Equal(t, testCase.WantMessage, apiErr.Message)
				}
			} else {
				assert.Nil(t, apiErr)
			}
		})
	}
}

// closedServerURL returns the URL of a server that no longer accepts
// connections.
func closedServerURL(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close()

	return serverURL
}
