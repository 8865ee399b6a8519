package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// NewAppsCommand creates the apps command group.
func NewAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Manage apps",
		Long:    "List, inspect, create, and delete Fly.io apps",
	}

	cmd.AddCommand(newAppsListCommand())
	cmd.AddCommand(newAppsGetCommand())
	cmd.AddCommand(newAppsCreateCommand())
	cmd.AddCommand(newAppsDeleteCommand())

	return cmd
}

func newAppsListCommand() *cobra.Command {
	var (
		org      string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List apps",
		Long:  "List the apps of an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := orgSlug(org)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			if detailed {
				apps, err := unwrap(client.Apps().ListAppsDetailed(ctx, slug), "list apps")
				if err != nil {
					return err
				}

				return renderOutput(cmd.OutOrStdout(), apps, func(w io.Writer) error {
					return renderAppsDetailedTable(w, apps.Apps)
				})
			}

			apps, err := unwrap(client.Apps().ListApps(ctx, slug), "list apps")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), apps, func(w io.Writer) error {
				return renderAppsTable(w, apps)
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization slug")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include status, IP addresses and machines")

	return cmd
}

func renderAppsTable(w io.Writer, apps *fly.ListAppsResponse) error {
	if len(apps.Apps) == 0 {
		_, err := fmt.Fprintln(w, "No apps found")

		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Machines", "Network")

	for _, app := range apps.Apps {
		_ = table.Append(app.Name, formatInt(app.MachineCount), valueOrNA(app.Network))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d\n", apps.TotalApps)

	return err
}

func renderAppsDetailedTable(w io.Writer, apps []fly.AppDetailed) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "No apps found")

		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Status", "Organization", "IP Addresses", "Machines")

	for _, app := range apps {
		_ = table.Append(app.Name, valueOrNA(string(app.Status)), valueOrNA(app.Organization.Slug),
			formatInt(len(app.IPAddresses)), formatInt(len(app.Machines)))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newAppsGetCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "get APP_NAME",
		Short: "Get app details",
		Long:  "Display information about a specific app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			if !detailed {
				app, err := unwrap(client.Apps().GetApp(ctx, args[0]), "get app")
				if err != nil {
					return err
				}

				return renderOutput(cmd.OutOrStdout(), app, func(w io.Writer) error {
					return renderProperties(w, appProperties(*app))
				})
			}

			app, err := unwrap(client.Apps().GetAppDetailed(ctx, args[0]), "get app")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), app, func(w io.Writer) error {
				return renderAppDetailed(w, app)
			})
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "include IP addresses and machines")

	return cmd
}

func appProperties(app fly.App) [][2]string {
	return [][2]string{
		{"Name", app.Name},
		{"Status", valueOrNA(string(app.Status))},
		{"Organization", valueOrNA(app.Organization.Name)},
		{"Organization Slug", valueOrNA(app.Organization.Slug)},
	}
}

func renderAppDetailed(w io.Writer, app *fly.AppDetailed) error {
	if err := renderProperties(w, appProperties(app.App)); err != nil {
		return err
	}

	if len(app.IPAddresses) > 0 {
		_, _ = fmt.Fprintln(w, "\nIP Addresses:")

		table := tablewriter.NewWriter(w)
		table.Header("ID", "Type", "Address", "Region", "Created")

		for _, ip := range app.IPAddresses {
			_ = table.Append(ip.ID, string(ip.Type), ip.Address, valueOrNA(ip.Region), valueOrNA(ip.CreatedAt))
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	if len(app.Machines) > 0 {
		_, _ = fmt.Fprintln(w, "\nMachines:")

		table := tablewriter.NewWriter(w)
		table.Header("ID", "Name", "State", "Region")

		for _, machine := range app.Machines {
			_ = table.Append(machine.ID, machine.Name, machine.State, machine.Region)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}

func newAppsCreateCommand() *cobra.Command {
	var (
		org     string
		network string
	)

	cmd := &cobra.Command{
		Use:   "create APP_NAME",
		Short: "Create an app",
		Long:  "Create a new app in an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := orgSlug(org)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &fly.CreateAppRequest{
				OrgSlug: slug,
				AppName: strings.TrimSpace(args[0]),
				Network: network,
			}

			if _, err := unwrap(client.Apps().CreateApp(ctx, request), "create app"); err != nil {
				return err
			}

			emitEvent(cmd, "app.created", request.AppName, map[string]string{"org": slug})

			return renderMessage(cmd.OutOrStdout(), request, fmt.Sprintf("Created app %s in %s", request.AppName, slug))
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization slug")
	cmd.Flags().StringVar(&network, "network", "", "custom private network name")

	return cmd
}

func newAppsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete APP_NAME",
		Short: "Delete an app",
		Long:  "Delete an app and all of its machines and volumes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appName := args[0]

			if !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Really delete app '%s'? Use --force to confirm\n", appName)

				return nil
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			if _, err := unwrap(client.Apps().DeleteApp(ctx, appName), "delete app"); err != nil {
				return err
			}

			emitEvent(cmd, "app.deleted", appName, nil)

			result := map[string]string{"name": appName, "status": "deleted"}

			return renderMessage(cmd.OutOrStdout(), result, fmt.Sprintf("Deleted app %s", appName))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
