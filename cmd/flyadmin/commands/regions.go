package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// NewRegionsCommand creates the regions command group.
func NewRegionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "regions",
		Aliases: []string{"region"},
		Short:   "List platform regions",
		Long:    "List the regions machines and volumes can be placed in",
	}

	cmd.AddCommand(newRegionsListCommand())

	return cmd
}

func newRegionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			output, err := unwrap(client.Regions().GetRegions(ctx), "get regions")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return renderRegionsTable(w, output.Platform)
			})
		},
	}
}

func renderRegionsTable(w io.Writer, platform fly.Platform) error {
	table := tablewriter.NewWriter(w)
	table.Header("Code", "Name", "Gateway", "Paid Plan")

	for _, region := range platform.Regions {
		code := region.Code
		if code == platform.RequestRegion {
			code += " *"
		}

		_ = table.Append(code, region.Name, formatBool(region.GatewayAvailable), formatBool(region.RequiresPaidPlan))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if platform.RequestRegion != "" {
		_, _ = fmt.Fprintf(w, "\n* nearest region: %s\n", platform.RequestRegion)
	}

	return nil
}
