package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// GraphQLRequest is the body posted to the GraphQL endpoint.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// GraphQL posts a document to "<graphqlURL>/graphql" and decodes the "data"
// member into out. It fails with *fly.HTTPError on a non-success status, with
// *fly.GraphQLError when the response carries errors, and with a wrapped
// decode error when the body is not JSON. A null "data" leaves out untouched.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload := GraphQLRequest{Query: query, Variables: variables}

	resp, err := c.send(ctx, http.MethodPost, c.graphqlURL+"/graphql", payload, nil)
	if err != nil {
		return err
	}

	var envelope graphQLEnvelope

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return fmt.Errorf("parsing GraphQL response: %w", err)
	}

	if hasGraphQLErrors(envelope.Errors) {
		return fly.NewGraphQLError(envelope.Errors)
	}

	if out == nil || isNullJSON(envelope.Data) {
		return nil
	}

	err = json.Unmarshal(envelope.Data, out)
	if err != nil {
		return fmt.Errorf("parsing GraphQL data: %w", err)
	}

	return nil
}

func hasGraphQLErrors(raw json.RawMessage) bool {
	if isNullJSON(raw) {
		return false
	}

	var items []json.RawMessage

	err := json.Unmarshal(raw, &items)
	if err != nil {
		// Not an array; report whatever the server sent.
		return true
	}

	return len(items) > 0
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
