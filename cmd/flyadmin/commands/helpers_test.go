package commands

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

func TestParseKeyValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{name: "pairs", args: []string{"A=1", "B=two"}, want: map[string]string{"A": "1", "B": "two"}},
		{name: "value with equals", args: []string{"URL=a=b"}, want: map[string]string{"URL": "a=b"}},
		{name: "empty value", args: []string{"EMPTY="}, want: map[string]string{"EMPTY": ""}},
		{name: "later wins", args: []string{"A=1", "A=2"}, want: map[string]string{"A": "2"}},
		{name: "missing equals", args: []string{"A"}, wantErr: true},
		{name: "missing key", args: []string{"=1"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseKeyValues(tt.args)
			if tt.wantErr {
				require.ErrorIs(t, err, constants.ErrInvalidKeyValue)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	value := "ok"

	data, err := unwrap(fly.Success(&value), "do thing")
	require.NoError(t, err)
	assert.Equal(t, "ok", *data)

	failed := fly.Failure[string](&fly.HTTPError{StatusCode: http.StatusForbidden, Body: []byte("nope")})

	data, err = unwrap(failed, "do thing")
	assert.Nil(t, data)
	require.Error(t, err)
	assert.Equal(t, "failed to do thing: 403: nope", err.Error())
	assert.True(t, fly.IsForbidden(err))
}

func TestRenderOutputFormats(t *testing.T) {
	data := map[string]string{"name": "web"}
	tableCalled := false

	table := func(w io.Writer) error {
		tableCalled = true
		_, err := io.WriteString(w, "table\n")

		return err
	}

	tests := []struct {
		format string
		want   string
	}{
		{constants.FormatJSON, "{\n  \"name\": \"web\"\n}\n"},
		{constants.FormatYAML, "name: web\n"},
		{"", "table\n"},
		{"TABLE", "table\n"},
	}

	for _, tt := range tests {
		setupViper(t, map[string]string{constants.KeyOutput: tt.format})

		var out bytes.Buffer
		require.NoError(t, renderOutput(&out, data, table))
		assert.Equal(t, tt.want, out.String(), "format %q", tt.format)
	}

	assert.True(t, tableCalled)

	setupViper(t, map[string]string{constants.KeyOutput: "xml"})
	err := renderOutput(io.Discard, data, table)
	require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
}

func TestOrgSlug(t *testing.T) {
	setupViper(t, nil)

	_, err := orgSlug("")
	require.ErrorIs(t, err, constants.ErrOrganizationRequired)

	setupViper(t, map[string]string{constants.KeyOrg: "configured"})

	slug, err := orgSlug("")
	require.NoError(t, err)
	assert.Equal(t, "configured", slug)

	slug, err = orgSlug("flag")
	require.NoError(t, err)
	assert.Equal(t, "flag", slug)
}

func TestReadTokenFromPipe(t *testing.T) {
	t.Parallel()

	var prompt bytes.Buffer

	token, err := readToken(strings.NewReader("  fo1_abc  \n"), &prompt)
	require.NoError(t, err)
	assert.Equal(t, "fo1_abc", token)
	assert.Equal(t, "API token: ", prompt.String())

	token, err = readToken(strings.NewReader("fo1_no_newline"), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "fo1_no_newline", token)

	_, err = readToken(strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestFormatters(t *testing.T) {
	t.Parallel()

	id := "m1"
	empty := ""

	assert.Equal(t, NotAvailable, formatTime(time.Time{}))
	assert.Equal(t, "2024-05-01 10:20:30", formatTime(time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)))
	assert.Equal(t, Yes, formatBool(true))
	assert.Equal(t, No, formatBool(false))
	assert.Equal(t, "m1", formatOptional(&id))
	assert.Equal(t, NotAvailable, formatOptional(&empty))
	assert.Equal(t, NotAvailable, formatOptional(nil))
	assert.Equal(t, NotAvailable, valueOrNA(""))
}

func TestEmitEventWithoutURLIsNoop(t *testing.T) {
	setupViper(t, nil)

	// No events_url: must return without dialing anything.
	emitEvent(NewAppsCommand(), "app.created", "web", nil)
}

func TestEmitEventUnreachableServerDoesNotFail(t *testing.T) {
	setupViper(t, map[string]string{constants.KeyEventsURL: "nats://127.0.0.1:1"})

	var stderr bytes.Buffer

	cmd := NewAppsCommand()
	cmd.SetErr(&stderr)

	emitEvent(cmd, "app.created", "web", nil)
	assert.Contains(t, stderr.String(), "failed to connect to events server")
}
