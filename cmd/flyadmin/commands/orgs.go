package commands

import (
	"io"

	"github.com/spf13/cobra"
)

// NewOrgsCommand creates the organizations command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Inspect organizations",
		Long:    "Display Fly.io organization details",
	}

	cmd.AddCommand(newOrgsGetCommand())

	return cmd
}

func newOrgsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [ORG_SLUG]",
		Short: "Get organization details",
		Long:  "Display an organization. Defaults to the configured org",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flag string
			if len(args) > 0 {
				flag = args[0]
			}

			slug, err := orgSlug(flag)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			output, err := unwrap(client.Organizations().GetOrganization(ctx, slug), "get organization")
			if err != nil {
				return err
			}

			org := output.Organization

			return renderOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return renderProperties(w, [][2]string{
					{"ID", valueOrNA(org.ID)},
					{"Slug", valueOrNA(org.Slug)},
					{"Name", valueOrNA(org.Name)},
					{"Type", valueOrNA(string(org.Type))},
					{"Viewer Role", valueOrNA(string(org.ViewerRole))},
				})
			})
		},
	}
}
