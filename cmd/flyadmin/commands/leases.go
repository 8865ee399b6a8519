package commands

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

func newMachinesLeaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lease",
		Short: "Manage machine leases",
		Long:  "Inspect, acquire, and release the exclusive lease of a machine",
	}

	cmd.AddCommand(newLeaseGetCommand())
	cmd.AddCommand(newLeaseAcquireCommand())
	cmd.AddCommand(newLeaseReleaseCommand())

	return cmd
}

func leaseProperties(lease *fly.MachineLease) [][2]string {
	rows := [][2]string{{"Status", valueOrNA(lease.Status)}}
	if lease.Data == nil {
		return rows
	}

	expires := NotAvailable
	if lease.Data.ExpiresAt > 0 {
		expires = formatTime(time.Unix(lease.Data.ExpiresAt, 0).UTC())
	}

	return append(rows,
		[2]string{"Nonce", lease.Data.Nonce},
		[2]string{"Owner", valueOrNA(lease.Data.Owner)},
		[2]string{"Description", valueOrNA(lease.Data.Description)},
		[2]string{"Expires", expires},
	)
}

func newLeaseGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get APP_NAME MACHINE_ID",
		Short: "Show the lease of a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.GetMachineRequest{AppName: args[0], MachineID: args[1]}

			lease, err := unwrap(client.Machines().GetLease(ctx, request), "get lease")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), lease, func(w io.Writer) error {
				return renderProperties(w, leaseProperties(lease))
			})
		},
	}
}

func newLeaseAcquireCommand() *cobra.Command {
	var (
		ttl         int
		description string
	)

	cmd := &cobra.Command{
		Use:   "acquire APP_NAME MACHINE_ID",
		Short: "Acquire the lease of a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &fly.AcquireLeaseRequest{
				AppName:     args[0],
				MachineID:   args[1],
				TTL:         ttl,
				Description: description,
			}

			lease, err := unwrap(client.Machines().AcquireLease(ctx, request), "acquire lease")
			if err != nil {
				return err
			}

			emitEvent(cmd, "machine.lease_acquired", request.MachineID, map[string]string{"app": request.AppName})

			return renderOutput(cmd.OutOrStdout(), lease, func(w io.Writer) error {
				return renderProperties(w, leaseProperties(lease))
			})
		},
	}

	cmd.Flags().IntVar(&ttl, "ttl", 0, "lease duration in seconds")
	cmd.Flags().StringVar(&description, "description", "", "why the lease is held")

	return cmd
}

func newLeaseReleaseCommand() *cobra.Command {
	var nonce string

	cmd := &cobra.Command{
		Use:   "release APP_NAME MACHINE_ID",
		Short: "Release the lease of a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := fly.ReleaseLeaseRequest{AppName: args[0], MachineID: args[1], Nonce: nonce}

			return runMachineAction(cmd, "machine.lease_released", "release lease", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().ReleaseLease(commandContext(cmd), request)
				})
		},
	}

	cmd.Flags().StringVar(&nonce, "nonce", "", "nonce returned when the lease was acquired")
	_ = cmd.MarkFlagRequired("nonce")

	return cmd
}
