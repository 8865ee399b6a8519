package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Client identification.
const (
	// DefaultUserAgent is sent when no User-Agent is configured.
	DefaultUserAgent = "fly-admin-go"
)

// CLI configuration.
const (
	// ConfigDirName is the configuration directory under the user's home.
	ConfigDirName = ".flyadmin"

	// ConfigFileName is the configuration file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the configuration file format.
	ConfigFileType = "yml"

	// EnvPrefix prefixes environment variables read by the CLI (FLY_API_TOKEN).
	EnvPrefix = "FLY"
)

// Configuration keys.
const (
	KeyAPIToken   = "api_token"
	KeyAPIURL     = "api_url"
	KeyGraphQLURL = "graphql_url"
	KeyOutput     = "output"
	KeyVerbose    = "verbose"
	KeyEventsURL  = "events_url"
	KeyOrg        = "org"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Events.
const (
	// EventsSubject is the NATS subject CLI mutations are published on.
	EventsSubject = "flyadmin.events"

	// EventsClientName identifies the CLI to the NATS server.
	EventsClientName = "flyadmin-cli"

	// EventsConnectTimeout bounds the NATS connection attempt.
	EventsConnectTimeout = 5 * time.Second

	// EventsMaxReconnects caps reconnect attempts of a CLI process.
	EventsMaxReconnects = 3

	// EventsReconnectWait is the pause between reconnect attempts.
	EventsReconnectWait = 500 * time.Millisecond
)

// Argument counts.
const (
	// MinimumArgumentCount is used by commands taking KEY VALUE.
	MinimumArgumentCount = 2
)

// Machine defaults.
const (
	// DefaultWaitTimeoutSeconds is the server-side wait timeout used by the CLI.
	DefaultWaitTimeoutSeconds = 60

	// LeaseNonceHeader carries the nonce of a held machine lease.
	LeaseNonceHeader = "fly-machine-lease-nonce"
)
