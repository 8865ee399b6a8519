package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	flyhttp "github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

func testTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"})
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/apps/my-app", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
			assert.Equal(t, "fly-admin-go", request.Header.Get("User-Agent"))

			response := map[string]string{"name": "my-app", "status": "deployed"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := flyhttp.NewClient(server.URL, server.URL, testTokens())

		req := &flyhttp.Request{
			Method: "GET",
			Path:   "apps/my-app",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "my-app", result["name"])
		assert.Equal(t, "deployed", result["status"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/apps", request.URL.Path)
			assert.Equal(t, "org_slug=acme", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := flyhttp.NewClient(server.URL, server.URL, nil)

		req := &flyhttp.Request{
			Method: "GET",
			Path:   "apps",
			Query:  url.Values{"org_slug": []string{"acme"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "my-app", body["app_name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := flyhttp.NewClient(server.URL, server.URL, nil)

		req := &flyhttp.Request{
			Method: "POST",
			Path:   "apps",
			Body:   map[string]string{"app_name": "my-app"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("no authorization without token source", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := flyhttp.NewClient(server.URL, server.URL, nil)

		_, err := client.Get(context.Background(), "apps", nil)
		require.NoError(t, err)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(writer, "app not found")
		}))
		defer server.Close()

		client := flyhttp.NewClient(server.URL, server.URL, nil)

		req := &flyhttp.Request{
			Method: "GET",
			Path:   "apps/invalid",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		httpErr := &fly.HTTPError{}
		ok := errors.As(err, &httpErr)
		require.True(t, ok)
		assert.Equal(t, 404, httpErr.StatusCode)
		assert.Equal(t, "app not found", string(httpErr.Body))
		assert.Equal(t, "404: app not found", err.Error())
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := flyhttp.NewClient(server.URL, server.URL, nil)

		req := &flyhttp.Request{
			Method: "GET",
			Path:   "apps",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("nil request", func(t *testing.T) {
		t.Parallel()

		client := flyhttp.NewClient("http://127.0.0.1", "http://127.0.0.1", nil)

		_, err := client.Do(context.Background(), nil)
		require.ErrorIs(t, err, fly.ErrNilRequest)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := flyhttp.NewClient(server.URL, server.URL, nil, flyhttp.WithLogger(logger), flyhttp.WithDebug(true))

		req := &flyhttp.Request{
			Method: "GET",
			Path:   "apps",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("network failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := flyhttp.NewClient(serverURL, serverURL, nil)

		resp, err := client.Get(context.Background(), "apps", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "executing request")
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*flyhttp.Client, context.Context) (*flyhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *flyhttp.Client, ctx context.Context) (*flyhttp.Response, error) {
				return c.Get(ctx, "test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *flyhttp.Client, ctx context.Context) (*flyhttp.Response, error) {
				return c.Post(ctx, "test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *flyhttp.Client, ctx context.Context) (*flyhttp.Response, error) {
				return c.Put(ctx, "test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *flyhttp.Client, ctx context.Context) (*flyhttp.Response, error) {
				return c.Delete(ctx, "test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/v1/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := flyhttp.NewClient(server.URL+"/", server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

func TestClient_NoRetries(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusBadGateway} {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				attempts.Add(1)
				writer.WriteHeader(status)
			}))
			defer server.Close()

			client := flyhttp.NewClient(server.URL, server.URL, nil)

			resp, err := client.Get(context.Background(), "test", nil)
			require.Error(t, err)
			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, int32(1), attempts.Load())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("empty body is absence of value", func(t *testing.T) {
		t.Parallel()

		value, err := flyhttp.DecodeJSON[map[string]string](&flyhttp.Response{StatusCode: 200, Body: []byte("  ")})
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()

		value, err := flyhttp.DecodeJSON[map[string]string](&flyhttp.Response{StatusCode: 200, Body: []byte(`{"a":"b"}`)})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "b"}, *value)
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		_, err := flyhttp.DecodeJSON[map[string]string](&flyhttp.Response{StatusCode: 200, Body: []byte(`not json`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing response")
	})
}
