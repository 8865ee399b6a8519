package fly

import (
	"errors"
	"fmt"
	"net/http"
)

// UnknownErrorMessage is reported when a safe call fails with a value that is
// neither an error nor a string.
const UnknownErrorMessage = "An unknown error occurred."

// APIError is the normalized failure of a safe call.
type APIError struct {
	Status  int    `json:"status"  yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Empty is the payload of operations whose success carries no data.
type Empty struct{}

// Result is the tagged outcome of every public operation. Exactly one of Data
// and Error is set.
type Result[V any] struct {
	Data  *V        `json:"data,omitempty"  yaml:"data,omitempty"`
	Error *APIError `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (r Result[V]) OK() bool {
	return r.Error == nil
}

// Err returns the failure as an error, or nil on success.
func (r Result[V]) Err() error {
	if r.Error == nil {
		return nil
	}

	return r.Error
}

// Unwrap converts the result into the usual Go pair.
func (r Result[V]) Unwrap() (*V, error) {
	if r.Error != nil {
		return nil, r.Error
	}

	return r.Data, nil
}

// Success builds a successful result. A nil value is replaced by the zero
// value of V so Data is never nil on success.
func Success[V any](value *V) Result[V] {
	if value == nil {
		value = new(V)
	}

	return Result[V]{Data: value}
}

// Failure builds a failed result from any error.
func Failure[V any](err error) Result[V] {
	return Result[V]{Error: Classify(err)}
}

// Classify maps an error from the strict transport onto the status/message
// pair reported by safe calls.
func Classify(err error) *APIError {
	if err == nil {
		return &APIError{Status: http.StatusInternalServerError, Message: UnknownErrorMessage}
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return &APIError{Status: apiErr.Status, Message: apiErr.Message}
	}

	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return &APIError{Status: httpErr.StatusCode, Message: string(httpErr.Body)}
	}

	gqlErr := &GraphQLError{}
	if errors.As(err, &gqlErr) {
		// GraphQL-level errors always report 500, even when the server sent a
		// more specific code in the extensions.
		return &APIError{Status: http.StatusInternalServerError, Message: gqlErr.Error()}
	}

	return &APIError{Status: http.StatusInternalServerError, Message: err.Error()}
}

// classifyPanic maps a recovered panic value the same way a thrown value
// would be.
func classifyPanic(value interface{}) *APIError {
	switch v := value.(type) {
	case error:
		return Classify(v)
	case string:
		return &APIError{Status: http.StatusInternalServerError, Message: v}
	default:
		return &APIError{Status: http.StatusInternalServerError, Message: UnknownErrorMessage}
	}
}

// Safe runs a strict call and normalizes its outcome. It never panics and
// never returns an error.
func Safe[V any](call func() (*V, error)) (result Result[V]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = Result[V]{Error: classifyPanic(recovered)}
		}
	}()

	value, err := call()
	if err != nil {
		return Failure[V](err)
	}

	return Success(value)
}

// Map reshapes the payload of a successful result. Failures pass through
// untouched.
func Map[V, W any](result Result[V], transform func(*V) *W) Result[W] {
	if result.Error != nil {
		return Result[W]{Error: result.Error}
	}

	return Safe(func() (*W, error) {
		return transform(result.Data), nil
	})
}
