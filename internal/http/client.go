package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// Logger interface for HTTP logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs REST and GraphQL calls against the platform. It holds no
// mutable state after construction and is safe for concurrent use.
type Client struct {
	apiURL     string
	graphqlURL string
	tokens     oauth2.TokenSource
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	userAgent  string
}

// Request is a REST request relative to "<apiURL>/v1/".
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		if logger != nil {
			c.httpClient.Logger = &leveledLogger{logger: logger}
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// NewClient creates a new HTTP client. tokens may be nil, in which case no
// Authorization header is sent.
func NewClient(apiURL, graphqlURL string, tokens oauth2.TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{}
	retryClient.RetryMax = 0
	retryClient.CheckRetry = checkNoRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	client := &Client{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		graphqlURL: strings.TrimSuffix(graphqlURL, "/"),
		tokens:     tokens,
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// checkNoRetry stops after the first attempt and hands back the transport
// error unchanged.
func checkNoRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, err
}

// APIURL returns the REST base URL.
func (c *Client) APIURL() string {
	return c.apiURL
}

// GraphQLURL returns the GraphQL base URL.
func (c *Client) GraphQLURL() string {
	return c.graphqlURL
}

// Do executes a REST request. On a non-success status the response is
// returned together with a *fly.HTTPError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fly.ErrNilRequest
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	return c.send(ctx, method, c.restURL(req.Path, req.Query), req.Body, req.Headers)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) restURL(path string, query url.Values) string {
	target := c.apiURL + "/v1/" + strings.TrimPrefix(path, "/")

	if len(query) == 0 {
		return target
	}

	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}

	return target + separator + query.Encode()
}

func (c *Client) send(ctx context.Context, method, target string, body interface{}, headers map[string]string) (*Response, error) {
	var payload []byte

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		payload = data
	}

	var bodyArg interface{}
	if payload != nil {
		bodyArg = payload
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, target, bodyArg)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		token.SetAuthHeader(httpReq.Request)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": method,
			"url":    target,
			"body":   string(payload),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      method,
			"url":         target,
			"status_code": resp.StatusCode,
			"duration":    time.Since(start).String(),
			"body":        string(respBody),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, &fly.HTTPError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return resp, nil
}

// DecodeJSON decodes a success body. An empty body yields nil rather than a
// parse error.
func DecodeJSON[V any](resp *Response) (*V, error) {
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil //nolint:nilnil // absence of a body is not an error
	}

	var value V

	err := json.Unmarshal(resp.Body, &value)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &value, nil
}

// extraValueKey holds a trailing value that has no key, as hclog does.
const extraValueKey = "EXTRA_VALUE_AT_END"

// leveledLogger forwards go-retryablehttp warnings and errors. Its debug
// chatter duplicates the request/response logs and is dropped.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(string, ...interface{}) {}

func (l *leveledLogger) Debug(string, ...interface{}) {}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, (len(keysAndValues)+1)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	if len(keysAndValues)%2 == 1 {
		fields[extraValueKey] = keysAndValues[len(keysAndValues)-1]
	}

	return fields
}
