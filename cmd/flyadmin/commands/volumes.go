package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// NewVolumesCommand creates the volumes command group.
func NewVolumesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "volumes",
		Aliases: []string{"volume", "vol"},
		Short:   "Manage volumes",
		Long:    "List, create, extend, and delete persistent volumes of an app",
	}

	cmd.AddCommand(newVolumesListCommand())
	cmd.AddCommand(newVolumesGetCommand())
	cmd.AddCommand(newVolumesCreateCommand())
	cmd.AddCommand(newVolumesDeleteCommand())
	cmd.AddCommand(newVolumesExtendCommand())
	cmd.AddCommand(newVolumesSnapshotsCommand())

	return cmd
}

func newVolumesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list APP_NAME",
		Short: "List volumes",
		Long:  "List the volumes of an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			volumes, err := unwrap(client.Volumes().ListVolumes(ctx, args[0]), "list volumes")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), volumes, func(w io.Writer) error {
				return renderVolumesTable(w, *volumes)
			})
		},
	}
}

func renderVolumesTable(w io.Writer, volumes []fly.Volume) error {
	if len(volumes) == 0 {
		_, err := fmt.Fprintln(w, "No volumes found")

		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "State", "Size", "Region", "Attached To", "Created")

	for _, volume := range volumes {
		_ = table.Append(volume.ID, volume.Name, volume.State, fmt.Sprintf("%dGB", volume.SizeGB), volume.Region,
			formatOptional(volume.AttachedMachineID), formatTime(volume.CreatedAt))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func volumeProperties(volume *fly.Volume) [][2]string {
	return [][2]string{
		{"ID", volume.ID},
		{"Name", volume.Name},
		{"State", volume.State},
		{"Size", fmt.Sprintf("%dGB", volume.SizeGB)},
		{"Region", volume.Region},
		{"Zone", valueOrNA(volume.Zone)},
		{"Encrypted", formatBool(volume.Encrypted)},
		{"Filesystem", valueOrNA(volume.FSType)},
		{"Attached Machine", formatOptional(volume.AttachedMachineID)},
		{"Created", formatTime(volume.CreatedAt)},
	}
}

func newVolumesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get APP_NAME VOLUME_ID",
		Short: "Get volume details",
		Long:  "Display information about a specific volume",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.GetVolumeRequest{AppName: args[0], VolumeID: args[1]}

			volume, err := unwrap(client.Volumes().GetVolume(ctx, request), "get volume")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), volume, func(w io.Writer) error {
				return renderProperties(w, volumeProperties(volume))
			})
		},
	}
}

func newVolumesCreateCommand() *cobra.Command {
	var (
		name       string
		region     string
		sizeGB     int
		snapshotID string
		noEncrypt  bool
		uniqueZone bool
	)

	cmd := &cobra.Command{
		Use:   "create APP_NAME",
		Short: "Create a volume",
		Long:  "Create a new volume, optionally restored from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &fly.CreateVolumeRequest{
				AppName: args[0],
				Name:    name,
				Region:  region,
				SizeGB:  sizeGB,
			}

			if noEncrypt {
				encrypted := false
				request.Encrypted = &encrypted
			}

			if cmd.Flags().Changed("require-unique-zone") {
				request.RequireUniqueZone = &uniqueZone
			}

			if snapshotID != "" {
				request.SnapshotID = &snapshotID
			}

			volume, err := unwrap(client.Volumes().CreateVolume(ctx, request), "create volume")
			if err != nil {
				return err
			}

			emitEvent(cmd, "volume.created", volume.ID, map[string]string{"app": request.AppName, "region": volume.Region})

			return renderOutput(cmd.OutOrStdout(), volume, func(w io.Writer) error {
				return renderProperties(w, volumeProperties(volume))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "volume name")
	cmd.Flags().StringVar(&region, "region", "", "region code")
	cmd.Flags().IntVar(&sizeGB, "size", 1, "size in GB")
	cmd.Flags().StringVar(&snapshotID, "snapshot-id", "", "restore from this snapshot")
	cmd.Flags().BoolVar(&noEncrypt, "no-encryption", false, "create an unencrypted volume")
	cmd.Flags().BoolVar(&uniqueZone, "require-unique-zone", true, "place the volume on a host without other volumes of the app")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func newVolumesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete APP_NAME VOLUME_ID",
		Short: "Delete a volume",
		Long:  "Delete a volume and its data",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Really delete volume '%s'? Use --force to confirm\n", args[1])

				return nil
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.DeleteVolumeRequest{AppName: args[0], VolumeID: args[1]}

			volume, err := unwrap(client.Volumes().DeleteVolume(ctx, request), "delete volume")
			if err != nil {
				return err
			}

			emitEvent(cmd, "volume.deleted", request.VolumeID, map[string]string{"app": request.AppName})

			return renderMessage(cmd.OutOrStdout(), volume, fmt.Sprintf("Deleted volume %s", request.VolumeID))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func newVolumesExtendCommand() *cobra.Command {
	var sizeGB int

	cmd := &cobra.Command{
		Use:   "extend APP_NAME VOLUME_ID",
		Short: "Extend a volume",
		Long:  "Grow a volume to a new size. Volumes cannot shrink",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &fly.ExtendVolumeRequest{AppName: args[0], VolumeID: args[1], SizeGB: sizeGB}

			response, err := unwrap(client.Volumes().ExtendVolume(ctx, request), "extend volume")
			if err != nil {
				return err
			}

			emitEvent(cmd, "volume.extended", request.VolumeID, map[string]string{
				"app":     request.AppName,
				"size_gb": formatInt(sizeGB),
			})

			return renderOutput(cmd.OutOrStdout(), response, func(w io.Writer) error {
				rows := volumeProperties(&response.Volume)
				rows = append(rows, [2]string{"Needs Restart", formatBool(response.NeedsRestart)})

				return renderProperties(w, rows)
			})
		},
	}

	cmd.Flags().IntVar(&sizeGB, "size", 0, "new size in GB")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func newVolumesSnapshotsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots APP_NAME VOLUME_ID",
		Short: "List volume snapshots",
		Long:  "List the snapshots taken of a volume",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.ListSnapshotsRequest{AppName: args[0], VolumeID: args[1]}

			snapshots, err := unwrap(client.Volumes().ListSnapshots(ctx, request), "list snapshots")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), snapshots, func(w io.Writer) error {
				if len(*snapshots) == 0 {
					_, err := fmt.Fprintln(w, "No snapshots found")

					return err
				}

				table := tablewriter.NewWriter(w)
				table.Header("ID", "Size", "Status", "Created")

				for _, snapshot := range *snapshots {
					_ = table.Append(snapshot.ID, fmt.Sprint(snapshot.Size), valueOrNA(snapshot.Status),
						formatTime(snapshot.CreatedAt))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}
