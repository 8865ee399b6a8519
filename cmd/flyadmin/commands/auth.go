package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/aspen-cloud/fly-admin/internal/constants"
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Store, inspect, and remove the API token used by the CLI",
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token",
		Long: `Read an API token and store it in the config file.

The token is taken from --token when given, otherwise it is prompted for
without echo. Create one with 'fly tokens create'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(viper.GetString(constants.KeyAPIToken))
			if !cmd.Flags().Changed("token") {
				var err error

				token, err = readToken(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			if token == "" {
				return constants.ErrTokenRequired
			}

			if !skipVerify {
				viper.Set(constants.KeyAPIToken, token)

				ctx := commandContext(cmd)

				client, err := newClient(ctx)
				if err != nil {
					return err
				}

				if _, err := unwrap(client.Regions().GetRegions(ctx), "verify token"); err != nil {
					return err
				}
			}

			err := updateConfig(func(config *Config) error {
				config.APIToken = token

				return nil
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Token stored")

			return err
		},
	}

	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the token without calling the API")

	return cmd
}

// readToken prompts for a token. Terminals are read without echo, anything
// else line by line.
func readToken(in io.Reader, prompt io.Writer) (string, error) {
	_, _ = fmt.Fprint(prompt, "API token: ")

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		token, err := term.ReadPassword(int(file.Fd()))

		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}

		return strings.TrimSpace(string(token)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateConfig(func(config *Config) error {
				config.APIToken = ""

				return nil
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Token removed")

			return err
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := map[string]string{"authenticated": No}
			if strings.TrimSpace(viper.GetString(constants.KeyAPIToken)) != "" {
				status["authenticated"] = Yes
				status["token"] = Masked
			}

			return renderMessage(cmd.OutOrStdout(), status, "Authenticated: "+status["authenticated"])
		},
	}
}
