package fly

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrAPIKeyRequired    = errors.New("fly API key is required")
	ErrInvalidURL        = errors.New("invalid URL")
	ErrUnsupportedScheme = errors.New("URL scheme must be http or https")
	ErrNilRequest        = errors.New("request is required")
)

// HTTPError is returned by strict calls when the server answers with a
// non-success status.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, string(e.Body))
}

// GraphQLErrorLocation points at the offending part of a GraphQL document.
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLErrorItem is one entry of a GraphQL "errors" array.
type GraphQLErrorItem struct {
	Message    string                 `json:"message"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// GraphQLError is returned by strict GraphQL calls when the response carries a
// non-empty "errors" array.
type GraphQLError struct {
	Errors []GraphQLErrorItem
	raw    json.RawMessage
}

// NewGraphQLError decodes the raw "errors" array of a response.
func NewGraphQLError(raw json.RawMessage) *GraphQLError {
	gqlErr := &GraphQLError{}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err == nil {
		gqlErr.raw = compact.Bytes()
	} else {
		gqlErr.raw = raw
	}

	_ = json.Unmarshal(raw, &gqlErr.Errors)

	return gqlErr
}

// Error returns the JSON serialization of the errors array. A decoded
// response keeps the server's bytes with whitespace removed: field order,
// unknown fields and string escapes such as \u00e9 are preserved as sent.
func (e *GraphQLError) Error() string {
	if len(e.raw) > 0 {
		return string(e.raw)
	}

	data, err := json.Marshal(e.Errors)
	if err != nil {
		return UnknownErrorMessage
	}

	return string(data)
}

// Messages returns the message of every GraphQL error in order.
func (e *GraphQLError) Messages() []string {
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		messages = append(messages, item.Message)
	}

	return messages
}

// statusOf extracts the status a failure would be reported with.
func statusOf(err error) int {
	if err == nil {
		return 0
	}

	return Classify(err).Status
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}
