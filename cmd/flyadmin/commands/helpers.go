package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/internal/events"
	"github.com/aspen-cloud/fly-admin/internal/logging"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
	"github.com/aspen-cloud/fly-admin/pkg/flyclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Masked       = "***"
	Yes          = "yes"
	No           = "no"

	cliUserAgent      = "flyadmin-cli"
	timeLayout        = "2006-01-02 15:04:05"
	defaultYAMLIndent = 2
)

// newClient builds a client from the resolved flags, environment and config
// file.
func newClient(ctx context.Context) (fly.Client, error) {
	token := strings.TrimSpace(viper.GetString(constants.KeyAPIToken))
	if token == "" {
		return nil, constants.ErrNotAuthenticated
	}

	config := &fly.Config{
		APIKey:     token,
		APIURL:     viper.GetString(constants.KeyAPIURL),
		GraphQLURL: viper.GetString(constants.KeyGraphQLURL),
		UserAgent:  cliUserAgent,
	}

	if viper.GetBool(constants.KeyVerbose) {
		config.Debug = true
		config.Logger = newLogger()
	}

	client, err := flyclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// newLogger returns the stderr logger used for --verbose.
func newLogger() fly.Logger {
	return logging.NewHCLogger(logging.Options{
		Name:  "flyadmin",
		Level: "debug",
	})
}

// unwrap turns a failed result into an error naming the action.
func unwrap[V any](result fly.Result[V], action string) (*V, error) {
	data, err := result.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", action, err)
	}

	return data, nil
}

// outputFormat returns the selected output format.
func outputFormat() string {
	format := strings.ToLower(strings.TrimSpace(viper.GetString(constants.KeyOutput)))
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// renderOutput writes data as JSON or YAML, or calls table for the table
// format.
func renderOutput(w io.Writer, data interface{}, table func(w io.Writer) error) error {
	switch format := outputFormat(); format {
	case constants.FormatJSON:
		return renderJSON(w, data)
	case constants.FormatYAML:
		return renderYAML(w, data)
	case constants.FormatTable:
		return table(w)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}
}

func renderJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderProperties renders a two column Property/Value table.
func renderProperties(w io.Writer, rows [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderMessage prints a one line confirmation in table mode and the data
// otherwise.
func renderMessage(w io.Writer, data interface{}, message string) error {
	return renderOutput(w, data, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, message)

		return err
	})
}

// parseKeyValues parses KEY=VALUE arguments. Later keys win.
func parseKeyValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")

		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, arg)
		}

		values[key] = value
	}

	return values, nil
}

// orgSlug returns the --org flag, falling back to the configured org.
func orgSlug(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	if org := viper.GetString(constants.KeyOrg); org != "" {
		return org, nil
	}

	return "", constants.ErrOrganizationRequired
}

// emitEvent publishes a mutation event when events_url is configured.
// Failures are logged and never fail the command.
func emitEvent(cmd *cobra.Command, name, resource string, attributes map[string]string) {
	url := viper.GetString(constants.KeyEventsURL)
	if url == "" {
		return
	}

	logger := logging.NewHCLogger(logging.Options{
		Name:   "flyadmin",
		Level:  "warn",
		Output: cmd.ErrOrStderr(),
	})

	publisher, err := events.NewNATSPublisher(url, constants.EventsSubject, logger)
	if err != nil {
		logger.Warn("failed to connect to events server", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})

		return
	}
	defer publisher.Close()

	events.Emit(commandContext(cmd), publisher, logger, events.NewEvent(name, resource, attributes))
}

// commandContext returns the command's context or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format(timeLayout)
}

func formatBool(b bool) string {
	if b {
		return Yes
	}

	return No
}

func formatOptional(s *string) string {
	if s == nil || *s == "" {
		return NotAvailable
	}

	return *s
}

func valueOrNA(s string) string {
	if s == "" {
		return NotAvailable
	}

	return s
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
