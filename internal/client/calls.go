package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// restCall performs one REST round trip and decodes the body into V.
func restCall[V any](ctx context.Context, httpClient *http.Client, req *http.Request) fly.Result[V] {
	return fly.Safe(func() (*V, error) {
		resp, err := httpClient.Do(ctx, req)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[V](resp)
	})
}

// restEmpty performs one REST round trip whose body is not inspected.
func restEmpty(ctx context.Context, httpClient *http.Client, req *http.Request) fly.Result[fly.Empty] {
	return fly.Safe(func() (*fly.Empty, error) {
		_, err := httpClient.Do(ctx, req)
		if err != nil {
			return nil, err
		}

		return &fly.Empty{}, nil
	})
}

// graphQLCall sends a document and decodes its data into the wire type W.
func graphQLCall[W any](ctx context.Context, httpClient *http.Client, query string, variables map[string]interface{}) fly.Result[W] {
	return fly.Safe(func() (*W, error) {
		var out W

		err := httpClient.GraphQL(ctx, query, variables, &out)
		if err != nil {
			return nil, err
		}

		return &out, nil
	})
}

// resourcePath joins escaped path segments.
func resourcePath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return strings.Join(escaped, "/")
}
