package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// NewSecretsCommand creates the secrets command group.
func NewSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "secrets",
		Aliases: []string{"secret"},
		Short:   "Manage app secrets",
		Long:    "Set and unset app secrets. Every change creates a new release",
	}

	cmd.AddCommand(newSecretsSetCommand())
	cmd.AddCommand(newSecretsUnsetCommand())

	return cmd
}

func newSecretsSetCommand() *cobra.Command {
	var replaceAll bool

	cmd := &cobra.Command{
		Use:   "set APP_ID KEY=VALUE...",
		Short: "Set secrets",
		Long:  "Set one or more secrets on an app",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // APP_ID plus at least one pair
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(args[1:])
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(values))
			for key := range values {
				keys = append(keys, key)
			}

			sort.Strings(keys)

			input := fly.SetSecretsInput{AppID: args[0], ReplaceAll: replaceAll}
			for _, key := range keys {
				input.Secrets = append(input.Secrets, fly.SecretInput{Key: key, Value: values[key]})
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			output, err := unwrap(client.Secrets().SetSecrets(ctx, input), "set secrets")
			if err != nil {
				return err
			}

			emitEvent(cmd, "secrets.set", input.AppID, map[string]string{"keys": strings.Join(keys, ",")})

			return renderOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return renderRelease(w, output.SetSecrets.Release)
			})
		},
	}

	cmd.Flags().BoolVar(&replaceAll, "replace-all", false, "remove secrets not named in this call")

	return cmd
}

func newSecretsUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset APP_ID KEY...",
		Short: "Unset secrets",
		Long:  "Remove one or more secrets from an app",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // APP_ID plus at least one key
		RunE: func(cmd *cobra.Command, args []string) error {
			input := fly.UnsetSecretsInput{AppID: args[0], Keys: args[1:]}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			output, err := unwrap(client.Secrets().UnsetSecrets(ctx, input), "unset secrets")
			if err != nil {
				return err
			}

			emitEvent(cmd, "secrets.unset", input.AppID, map[string]string{"keys": strings.Join(input.Keys, ",")})

			return renderOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return renderRelease(w, output.UnsetSecrets.Release)
			})
		},
	}
}

func renderRelease(w io.Writer, release *fly.Release) error {
	if release == nil {
		_, err := fmt.Fprintln(w, "Secrets updated; no release was created")

		return err
	}

	return renderProperties(w, [][2]string{
		{"Release", release.ID},
		{"Version", formatInt(release.Version)},
		{"Reason", valueOrNA(release.Reason)},
		{"Description", valueOrNA(release.Description)},
		{"User", valueOrNA(release.User.Email)},
		{"Created", valueOrNA(release.CreatedAt)},
	})
}
