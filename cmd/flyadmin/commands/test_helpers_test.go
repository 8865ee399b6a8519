package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/aspen-cloud/fly-admin/internal/constants"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// subcommandNames returns the names of all subcommands.
func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	return names
}

// setupViper resets the global viper state and points the config file at a
// temporary directory. Tests using it must not run in parallel.
func setupViper(t *testing.T, settings map[string]string) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.Set("config", configFile)

	for key, value := range settings {
		viper.Set(key, value)
	}

	return configFile
}

// executeCommand runs cmd with args and returns everything written to stdout.
func executeCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

// requestLog collects the requests seen by fakeAPI.
type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(request recordedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = append(l.requests, request)
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]recordedRequest(nil), l.requests...)
}

// fakeAPI serves both endpoints: /graphql answers graphql, everything else
// answers rest.
func fakeAPI(t *testing.T, rest, graphql interface{}) (*httptest.Server, *requestLog) {
	t.Helper()

	requests := &requestLog{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}

		body, _ := io.ReadAll(r.Body)
		if len(body) > 0 {
			_ = json.Unmarshal(body, &recorded.Body)
		}

		requests.add(recorded)

		response := rest
		if r.URL.Path == "/graphql" {
			response = graphql
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	return server, requests
}

// apiSettings points the CLI at server with a test token.
func apiSettings(server *httptest.Server, output string) map[string]string {
	return map[string]string{
		constants.KeyAPIToken:   "test-token",
		constants.KeyAPIURL:     server.URL,
		constants.KeyGraphQLURL: server.URL,
		constants.KeyOutput:     output,
	}
}

func requireSingleRequest(t *testing.T, requests *requestLog) recordedRequest {
	t.Helper()

	all := requests.all()
	require.Len(t, all, 1)

	return all[0]
}
