package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// NewIPsCommand creates the IP address command group.
func NewIPsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ips",
		Aliases: []string{"ip"},
		Short:   "Manage IP addresses",
		Long:    "Allocate and release the public and private IP addresses of an app",
	}

	cmd.AddCommand(newIPsAllocateCommand())
	cmd.AddCommand(newIPsReleaseCommand())

	return cmd
}

func parseIPType(value string) (fly.IPAddressType, error) {
	switch ipType := fly.IPAddressType(value); ipType {
	case fly.IPAddressTypeV4, fly.IPAddressTypeV6, fly.IPAddressTypeSharedV4, fly.IPAddressTypePrivateV6:
		return ipType, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidIPType, value)
	}
}

func newIPsAllocateCommand() *cobra.Command {
	var (
		ipType         string
		region         string
		organizationID string
		network        string
	)

	cmd := &cobra.Command{
		Use:   "allocate APP_ID",
		Short: "Allocate an IP address",
		Long:  "Allocate a new IP address for an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addressType, err := parseIPType(ipType)
			if err != nil {
				return err
			}

			input := fly.AllocateIPAddressInput{
				AppID:          args[0],
				Type:           addressType,
				Region:         region,
				OrganizationID: organizationID,
				Network:        network,
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			output, err := unwrap(client.Networks().AllocateIPAddress(ctx, input), "allocate IP address")
			if err != nil {
				return err
			}

			ip := output.AllocateIPAddress.IPAddress

			emitEvent(cmd, "ip.allocated", ip.Address, map[string]string{"app": input.AppID, "type": string(ip.Type)})

			return renderOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return renderProperties(w, [][2]string{
					{"ID", valueOrNA(ip.ID)},
					{"Type", string(ip.Type)},
					{"Address", ip.Address},
					{"Region", valueOrNA(ip.Region)},
					{"Created", valueOrNA(ip.CreatedAt)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&ipType, "type", string(fly.IPAddressTypeV6), "v4, v6, shared_v4 or private_v6")
	cmd.Flags().StringVar(&region, "region", "", "region for a regional address")
	cmd.Flags().StringVar(&organizationID, "org-id", "", "organization ID for private addresses")
	cmd.Flags().StringVar(&network, "network", "", "custom private network")

	return cmd
}

func newIPsReleaseCommand() *cobra.Command {
	var (
		appID string
		id    string
		ip    string
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Release an IP address",
		Long:  "Release an IP address by ID, or by app and address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" && ip == "" {
				return constants.ErrIPAddressRequired
			}

			input := fly.ReleaseIPAddressInput{AppID: appID, IPAddressID: id, IP: ip}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			output, err := unwrap(client.Networks().ReleaseIPAddress(ctx, input), "release IP address")
			if err != nil {
				return err
			}

			released := ip
			if released == "" {
				released = id
			}

			emitEvent(cmd, "ip.released", released, map[string]string{"app": output.ReleaseIPAddress.App.Name})

			return renderMessage(cmd.OutOrStdout(), output,
				fmt.Sprintf("Released %s from %s", released, valueOrNA(output.ReleaseIPAddress.App.Name)))
		},
	}

	cmd.Flags().StringVar(&appID, "app", "", "app owning the address")
	cmd.Flags().StringVar(&id, "id", "", "IP address ID")
	cmd.Flags().StringVar(&ip, "ip", "", "IP address")

	return cmd
}
