package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// NewMachinesCommand creates the machines command group.
func NewMachinesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "machines",
		Aliases: []string{"machine", "m"},
		Short:   "Manage machines",
		Long:    "Create, inspect, and control the machines of an app through the Machines API",
	}

	cmd.AddCommand(newMachinesListCommand())
	cmd.AddCommand(newMachinesGetCommand())
	cmd.AddCommand(newMachinesCreateCommand())
	cmd.AddCommand(newMachinesUpdateCommand())
	cmd.AddCommand(newMachinesDeleteCommand())
	cmd.AddCommand(newMachinesStartCommand())
	cmd.AddCommand(newMachinesStopCommand())
	cmd.AddCommand(newMachinesRestartCommand())
	cmd.AddCommand(newMachinesSignalCommand())
	cmd.AddCommand(newMachinesWaitCommand())
	cmd.AddCommand(newMachinesCordonCommand())
	cmd.AddCommand(newMachinesUncordonCommand())
	cmd.AddCommand(newMachinesEventsCommand())
	cmd.AddCommand(newMachinesVersionsCommand())
	cmd.AddCommand(newMachinesPsCommand())
	cmd.AddCommand(newMachinesLeaseCommand())

	return cmd
}

func newMachinesListCommand() *cobra.Command {
	var request fly.ListMachinesRequest

	cmd := &cobra.Command{
		Use:   "list APP_NAME",
		Short: "List machines",
		Long:  "List the machines of an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request.AppName = args[0]

			machines, err := unwrap(client.Machines().ListMachines(ctx, request), "list machines")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), machines, func(w io.Writer) error {
				return renderMachinesTable(w, *machines)
			})
		},
	}

	cmd.Flags().BoolVar(&request.IncludeDeleted, "include-deleted", false, "include destroyed machines")
	cmd.Flags().StringVar(&request.Region, "region", "", "only list machines in this region")

	return cmd
}

func renderMachinesTable(w io.Writer, machines []fly.Machine) error {
	if len(machines) == 0 {
		_, err := fmt.Fprintln(w, "No machines found")

		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "State", "Region", "Image", "Updated")

	for _, machine := range machines {
		image := NotAvailable
		if machine.Config != nil && machine.Config.Image != "" {
			image = machine.Config.Image
		}

		_ = table.Append(machine.ID, machine.Name, string(machine.State), machine.Region, image,
			formatTime(machine.UpdatedAt))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func machineProperties(machine *fly.Machine) [][2]string {
	rows := [][2]string{
		{"ID", machine.ID},
		{"Name", machine.Name},
		{"State", string(machine.State)},
		{"Region", machine.Region},
		{"Instance ID", valueOrNA(machine.InstanceID)},
		{"Private IP", valueOrNA(machine.PrivateIP)},
		{"Created", formatTime(machine.CreatedAt)},
		{"Updated", formatTime(machine.UpdatedAt)},
	}

	if machine.Config != nil {
		rows = append(rows, [2]string{"Image", machine.Config.Image})

		if guest := machine.Config.Guest; guest != nil {
			rows = append(rows, [2]string{"Guest", fmt.Sprintf("%s %d CPU %d MB", guest.CPUKind, guest.CPUs, guest.MemoryMB)})
		}
	}

	return rows
}

func newMachinesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get APP_NAME MACHINE_ID",
		Short: "Get machine details",
		Long:  "Display information about a specific machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.GetMachineRequest{AppName: args[0], MachineID: args[1]}

			machine, err := unwrap(client.Machines().GetMachine(ctx, request), "get machine")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), machine, func(w io.Writer) error {
				return renderProperties(w, machineProperties(machine))
			})
		},
	}
}

// machineConfigFlags collects the flags shared by create and update.
type machineConfigFlags struct {
	configFile string
	image      string
	env        []string
	cpuKind    string
	cpus       int
	memoryMB   int
}

func (f *machineConfigFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configFile, "config-file", "", "machine config as a JSON or YAML file")
	cmd.Flags().StringVar(&f.image, "image", "", "container image")
	cmd.Flags().StringArrayVarP(&f.env, "env", "e", nil, "environment variable KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&f.cpuKind, "cpu-kind", "", "shared or performance")
	cmd.Flags().IntVar(&f.cpus, "cpus", 0, "number of CPUs")
	cmd.Flags().IntVar(&f.memoryMB, "memory", 0, "memory in MB")
}

// build loads the config file, if any, and applies the flag overrides.
func (f *machineConfigFlags) build() (fly.MachineConfig, error) {
	var config fly.MachineConfig

	if f.configFile != "" {
		data, err := os.ReadFile(f.configFile)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}

		// YAML is a superset of JSON, so one decoder covers both.
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if f.image != "" {
		config.Image = f.image
	}

	if len(f.env) > 0 {
		env, err := parseKeyValues(f.env)
		if err != nil {
			return config, err
		}

		if config.Env == nil {
			config.Env = make(map[string]string, len(env))
		}

		for key, value := range env {
			config.Env[key] = value
		}
	}

	if f.cpuKind != "" || f.cpus > 0 || f.memoryMB > 0 {
		if config.Guest == nil {
			config.Guest = &fly.MachineGuest{}
		}

		if f.cpuKind != "" {
			config.Guest.CPUKind = f.cpuKind
		}

		if f.cpus > 0 {
			config.Guest.CPUs = f.cpus
		}

		if f.memoryMB > 0 {
			config.Guest.MemoryMB = f.memoryMB
		}
	}

	return config, nil
}

func newMachinesCreateCommand() *cobra.Command {
	var (
		flags      machineConfigFlags
		name       string
		region     string
		skipLaunch bool
	)

	cmd := &cobra.Command{
		Use:   "create APP_NAME",
		Short: "Create a machine",
		Long:  "Create and, unless --skip-launch is set, start a new machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.build()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &fly.CreateMachineRequest{
				AppName:    args[0],
				Name:       name,
				Region:     region,
				Config:     config,
				SkipLaunch: skipLaunch,
			}

			machine, err := unwrap(client.Machines().CreateMachine(ctx, request), "create machine")
			if err != nil {
				return err
			}

			emitEvent(cmd, "machine.created", machine.ID, map[string]string{"app": args[0], "region": machine.Region})

			return renderOutput(cmd.OutOrStdout(), machine, func(w io.Writer) error {
				return renderProperties(w, machineProperties(machine))
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "machine name")
	cmd.Flags().StringVar(&region, "region", "", "region code")
	cmd.Flags().BoolVar(&skipLaunch, "skip-launch", false, "create without starting")

	return cmd
}

func newMachinesUpdateCommand() *cobra.Command {
	var (
		flags      machineConfigFlags
		leaseNonce string
		region     string
	)

	cmd := &cobra.Command{
		Use:   "update APP_NAME MACHINE_ID",
		Short: "Update a machine",
		Long:  "Replace the configuration of a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.build()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &fly.UpdateMachineRequest{
				AppName:    args[0],
				MachineID:  args[1],
				LeaseNonce: leaseNonce,
				Region:     region,
				Config:     config,
			}

			machine, err := unwrap(client.Machines().UpdateMachine(ctx, request), "update machine")
			if err != nil {
				return err
			}

			emitEvent(cmd, "machine.updated", machine.ID, map[string]string{"app": args[0]})

			return renderOutput(cmd.OutOrStdout(), machine, func(w io.Writer) error {
				return renderProperties(w, machineProperties(machine))
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&leaseNonce, "lease-nonce", "", "nonce of a held lease")
	cmd.Flags().StringVar(&region, "region", "", "region code")

	return cmd
}

func newMachinesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete APP_NAME MACHINE_ID",
		Short: "Destroy a machine",
		Long:  "Destroy a machine. --force kills a running machine first",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := fly.DeleteMachineRequest{AppName: args[0], MachineID: args[1], Force: force}

			return runMachineAction(cmd, "machine.deleted", "delete machine", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().DeleteMachine(commandContext(cmd), request)
				})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "kill the machine if it is running")

	return cmd
}

// runMachineAction runs an action acknowledged by {"ok": true} and reports it.
func runMachineAction(cmd *cobra.Command, event, action, appName, machineID string,
	call func(client fly.Client) fly.Result[fly.OkResponse],
) error {
	client, err := newClient(commandContext(cmd))
	if err != nil {
		return err
	}

	ok, err := unwrap(call(client), action)
	if err != nil {
		return err
	}

	emitEvent(cmd, event, machineID, map[string]string{"app": appName})

	return renderMessage(cmd.OutOrStdout(), ok, fmt.Sprintf("%s %s: ok=%t", action, machineID, ok.Ok))
}

func newMachinesStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start APP_NAME MACHINE_ID",
		Short: "Start a machine",
		Long:  "Start a stopped machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.StartMachineRequest{AppName: args[0], MachineID: args[1]}

			response, err := unwrap(client.Machines().StartMachine(ctx, request), "start machine")
			if err != nil {
				return err
			}

			emitEvent(cmd, "machine.started", request.MachineID, map[string]string{"app": request.AppName})

			return renderMessage(cmd.OutOrStdout(), response,
				fmt.Sprintf("Started machine %s (previous state: %s)", request.MachineID, valueOrNA(response.PreviousState)))
		},
	}
}

func newMachinesStopCommand() *cobra.Command {
	var (
		signal  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stop APP_NAME MACHINE_ID",
		Short: "Stop a machine",
		Long:  "Stop a running machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &fly.StopMachineRequest{AppName: args[0], MachineID: args[1], Signal: signal}
			if timeout > 0 {
				request.Timeout = timeout.String()
			}

			return runMachineAction(cmd, "machine.stopped", "stop machine", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().StopMachine(commandContext(cmd), request)
				})
		},
	}

	cmd.Flags().StringVar(&signal, "signal", "", "signal to send, e.g. SIGTERM")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "time to wait before killing the machine")

	return cmd
}

func newMachinesRestartCommand() *cobra.Command {
	var (
		signal  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "restart APP_NAME MACHINE_ID",
		Short: "Restart a machine",
		Long:  "Restart a machine in place",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := fly.RestartMachineRequest{AppName: args[0], MachineID: args[1], Signal: signal}
			if timeout > 0 {
				request.Timeout = timeout.String()
			}

			return runMachineAction(cmd, "machine.restarted", "restart machine", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().RestartMachine(commandContext(cmd), request)
				})
		},
	}

	cmd.Flags().StringVar(&signal, "signal", "", "signal to send, e.g. SIGTERM")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "time to wait before killing the machine")

	return cmd
}

func newMachinesSignalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signal APP_NAME MACHINE_ID SIGNAL",
		Short: "Send a signal to a machine",
		Long:  "Send a signal such as SIGHUP or SIGUSR1 to the main process of a machine",
		Args:  cobra.ExactArgs(3), //nolint:mnd // APP_NAME MACHINE_ID SIGNAL
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &fly.SignalMachineRequest{
				AppName:   args[0],
				MachineID: args[1],
				Signal:    strings.ToUpper(args[2]),
			}

			return runMachineAction(cmd, "machine.signaled", "signal machine", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().SignalMachine(commandContext(cmd), request)
				})
		},
	}
}

func newMachinesWaitCommand() *cobra.Command {
	var (
		state      string
		instanceID string
		timeout    int
	)

	cmd := &cobra.Command{
		Use:   "wait APP_NAME MACHINE_ID",
		Short: "Wait for a machine state",
		Long:  "Block until a machine reaches a state or the server-side timeout expires",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := fly.WaitMachineRequest{
				AppName:    args[0],
				MachineID:  args[1],
				InstanceID: instanceID,
				State:      fly.MachineState(state),
				Timeout:    timeout,
			}

			client, err := newClient(commandContext(cmd))
			if err != nil {
				return err
			}

			ok, err := unwrap(client.Machines().WaitMachine(commandContext(cmd), request), "wait for machine")
			if err != nil {
				return err
			}

			return renderMessage(cmd.OutOrStdout(), ok, fmt.Sprintf("Machine %s reached state %s", request.MachineID, state))
		},
	}

	cmd.Flags().StringVar(&state, "state", string(fly.MachineStateStarted), "state to wait for")
	cmd.Flags().StringVar(&instanceID, "instance-id", "", "wait for this instance version")
	cmd.Flags().IntVar(&timeout, "timeout", constants.DefaultWaitTimeoutSeconds, "timeout in seconds")

	return cmd
}

func newMachinesCordonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cordon APP_NAME MACHINE_ID",
		Short: "Cordon a machine",
		Long:  "Stop routing proxy traffic to a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := fly.CordonMachineRequest{AppName: args[0], MachineID: args[1]}

			return runMachineAction(cmd, "machine.cordoned", "cordon machine", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().CordonMachine(commandContext(cmd), request)
				})
		},
	}
}

func newMachinesUncordonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uncordon APP_NAME MACHINE_ID",
		Short: "Uncordon a machine",
		Long:  "Resume routing proxy traffic to a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := fly.CordonMachineRequest{AppName: args[0], MachineID: args[1]}

			return runMachineAction(cmd, "machine.uncordoned", "uncordon machine", request.AppName, request.MachineID,
				func(client fly.Client) fly.Result[fly.OkResponse] {
					return client.Machines().UncordonMachine(commandContext(cmd), request)
				})
		},
	}
}

func newMachinesEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events APP_NAME MACHINE_ID",
		Short: "List machine events",
		Long:  "List the lifecycle events recorded for a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.GetMachineRequest{AppName: args[0], MachineID: args[1]}

			machineEvents, err := unwrap(client.Machines().ListEvents(ctx, request), "list machine events")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), machineEvents, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Time", "Type", "Status", "Source")

				for _, event := range *machineEvents {
					when := time.UnixMilli(event.Timestamp).UTC()
					_ = table.Append(formatTime(when), event.Type, event.Status, event.Source)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newMachinesVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions APP_NAME MACHINE_ID",
		Short: "List machine versions",
		Long:  "List the configuration versions of a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.GetMachineRequest{AppName: args[0], MachineID: args[1]}

			versions, err := unwrap(client.Machines().ListVersions(ctx, request), "list machine versions")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), versions, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Version", "Image")

				for _, version := range *versions {
					_ = table.Append(version.Version, valueOrNA(version.UserConfig.Image))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newMachinesPsCommand() *cobra.Command {
	var sortBy, order string

	cmd := &cobra.Command{
		Use:   "ps APP_NAME MACHINE_ID",
		Short: "List machine processes",
		Long:  "List the processes running inside a machine",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := fly.ListProcessesRequest{AppName: args[0], MachineID: args[1], SortBy: sortBy, Order: order}

			processes, err := unwrap(client.Machines().ListProcesses(ctx, request), "list processes")
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), processes, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("PID", "Command", "CPU", "RSS")

				for _, process := range *processes {
					_ = table.Append(fmt.Sprint(process.PID), process.Command, fmt.Sprint(process.CPU), fmt.Sprint(process.RSS))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort field, e.g. cpu or rss")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc")

	return cmd
}
