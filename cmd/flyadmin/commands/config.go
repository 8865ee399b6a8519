package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aspen-cloud/fly-admin/internal/constants"
)

// Config represents the persisted CLI configuration.
type Config struct {
	APIToken   string `json:"api_token,omitempty"   yaml:"api_token,omitempty"`
	APIURL     string `json:"api_url,omitempty"     yaml:"api_url,omitempty"`
	GraphQLURL string `json:"graphql_url,omitempty" yaml:"graphql_url,omitempty"`
	Org        string `json:"org,omitempty"         yaml:"org,omitempty"`
	Output     string `json:"output,omitempty"      yaml:"output,omitempty"`
	EventsURL  string `json:"events_url,omitempty"  yaml:"events_url,omitempty"`
}

// configMutex serializes read-modify-write cycles on the config file.
var configMutex sync.Mutex

// field returns a pointer to the field stored under key.
func (c *Config) field(key string) (*string, error) {
	switch key {
	case constants.KeyAPIToken:
		return &c.APIToken, nil
	case constants.KeyAPIURL:
		return &c.APIURL, nil
	case constants.KeyGraphQLURL:
		return &c.GraphQLURL, nil
	case constants.KeyOrg:
		return &c.Org, nil
	case constants.KeyOutput:
		return &c.Output, nil
	case constants.KeyEventsURL:
		return &c.EventsURL, nil
	default:
		return nil, fmt.Errorf("%w: %s (valid keys: %s)", constants.ErrUnknownConfigKey, key, strings.Join(configKeys(), ", "))
	}
}

// masked returns a copy safe to print.
func (c Config) masked() Config {
	if c.APIToken != "" {
		c.APIToken = Masked
	}

	return c
}

func configKeys() []string {
	keys := []string{
		constants.KeyAPIToken,
		constants.KeyAPIURL,
		constants.KeyGraphQLURL,
		constants.KeyOrg,
		constants.KeyOutput,
		constants.KeyEventsURL,
	}
	sort.Strings(keys)

	return keys
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}

	if path := viper.GetString("config"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}

// loadConfig reads the config file. A missing file yields an empty config.
func loadConfig() (*Config, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flags
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// saveConfig writes the config file, creating its directory.
func saveConfig(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// updateConfig applies mutate to the stored config and saves it.
func updateConfig(mutate func(config *Config) error) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if err := mutate(config); err != nil {
		return err
	}

	return saveConfig(config)
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in ~/.flyadmin/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the stored configuration with the token masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			shown := config.masked()

			return renderOutput(cmd.OutOrStdout(), shown, func(w io.Writer) error {
				rows := make([][2]string, 0, len(configKeys()))

				for _, key := range configKeys() {
					value, _ := shown.field(key)
					rows = append(rows, [2]string{key, valueOrNA(*value)})
				}

				return renderProperties(w, rows)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys(), ", "),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], strings.TrimSpace(args[1])

			if key == constants.KeyOutput {
				switch value {
				case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
				default:
					return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, value)
				}
			}

			err := updateConfig(func(config *Config) error {
				field, err := config.field(key)
				if err != nil {
					return err
				}

				*field = value

				return nil
			})
			if err != nil {
				return err
			}

			shown := value
			if key == constants.KeyAPIToken {
				shown = Masked
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, shown)

			return err
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			err := updateConfig(func(config *Config) error {
				field, err := config.field(key)
				if err != nil {
					return err
				}

				*field = ""

				return nil
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return err
		},
	}
}
