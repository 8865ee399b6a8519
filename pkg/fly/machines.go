package fly

import "time"

// MachineState is the state of a machine.
type MachineState string

// Machine states.
const (
	MachineStateCreated    MachineState = "created"
	MachineStateStarting   MachineState = "starting"
	MachineStateStarted    MachineState = "started"
	MachineStateStopping   MachineState = "stopping"
	MachineStateStopped    MachineState = "stopped"
	MachineStateSuspended  MachineState = "suspended"
	MachineStateReplacing  MachineState = "replacing"
	MachineStateDestroying MachineState = "destroying"
	MachineStateDestroyed  MachineState = "destroyed"
)

// Machine represents a machine returned by the Machines API.
type Machine struct {
	ID         string         `json:"id"                    yaml:"id"`
	Name       string         `json:"name"                  yaml:"name"`
	State      MachineState   `json:"state"                 yaml:"state"`
	Region     string         `json:"region"                yaml:"region"`
	InstanceID string         `json:"instance_id"           yaml:"instance_id"`
	PrivateIP  string         `json:"private_ip"            yaml:"private_ip"`
	HostStatus string         `json:"host_status,omitempty" yaml:"host_status,omitempty"`
	Config     *MachineConfig `json:"config,omitempty"      yaml:"config,omitempty"`
	ImageRef   *ImageRef      `json:"image_ref,omitempty"   yaml:"image_ref,omitempty"`
	Events     []MachineEvent `json:"events,omitempty"      yaml:"events,omitempty"`
	Checks     []CheckStatus  `json:"checks,omitempty"      yaml:"checks,omitempty"`
	CreatedAt  time.Time      `json:"created_at"            yaml:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"            yaml:"updated_at"`
}

// MachineConfig is the desired configuration of a machine.
type MachineConfig struct {
	Image       string                  `json:"image"                  yaml:"image"`
	Env         map[string]string       `json:"env,omitempty"          yaml:"env,omitempty"`
	Metadata    map[string]string       `json:"metadata,omitempty"     yaml:"metadata,omitempty"`
	Init        *MachineInit            `json:"init,omitempty"         yaml:"init,omitempty"`
	Guest       *MachineGuest           `json:"guest,omitempty"        yaml:"guest,omitempty"`
	Restart     *MachineRestart         `json:"restart,omitempty"      yaml:"restart,omitempty"`
	Services    []MachineService        `json:"services,omitempty"     yaml:"services,omitempty"`
	Mounts      []MachineMount          `json:"mounts,omitempty"       yaml:"mounts,omitempty"`
	Checks      map[string]MachineCheck `json:"checks,omitempty"       yaml:"checks,omitempty"`
	StopConfig  *StopConfig             `json:"stop_config,omitempty"  yaml:"stop_config,omitempty"`
	Schedule    string                  `json:"schedule,omitempty"     yaml:"schedule,omitempty"`
	AutoDestroy bool                    `json:"auto_destroy,omitempty" yaml:"auto_destroy,omitempty"`
}

// MachineInit overrides the image entrypoint and command.
type MachineInit struct {
	Exec       []string `json:"exec,omitempty"       yaml:"exec,omitempty"`
	Entrypoint []string `json:"entrypoint,omitempty" yaml:"entrypoint,omitempty"`
	Cmd        []string `json:"cmd,omitempty"        yaml:"cmd,omitempty"`
	TTY        bool     `json:"tty,omitempty"        yaml:"tty,omitempty"`
}

// MachineGuest sizes the machine.
type MachineGuest struct {
	CPUKind  string `json:"cpu_kind"           yaml:"cpu_kind"`
	CPUs     int    `json:"cpus"               yaml:"cpus"`
	MemoryMB int    `json:"memory_mb"          yaml:"memory_mb"`
	GPUKind  string `json:"gpu_kind,omitempty" yaml:"gpu_kind,omitempty"`
}

// MachineRestart is the restart policy of a machine.
type MachineRestart struct {
	Policy     string `json:"policy"                yaml:"policy"`
	MaxRetries int    `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// MachineService exposes a port of the machine.
type MachineService struct {
	Protocol           string                     `json:"protocol"                       yaml:"protocol"`
	InternalPort       int                        `json:"internal_port"                  yaml:"internal_port"`
	Ports              []MachinePort              `json:"ports,omitempty"                yaml:"ports,omitempty"`
	Autostop           *bool                      `json:"autostop,omitempty"             yaml:"autostop,omitempty"`
	Autostart          *bool                      `json:"autostart,omitempty"            yaml:"autostart,omitempty"`
	MinMachinesRunning *int                       `json:"min_machines_running,omitempty" yaml:"min_machines_running,omitempty"`
	Concurrency        *MachineServiceConcurrency `json:"concurrency,omitempty"          yaml:"concurrency,omitempty"`
}

// MachinePort is a public port mapped to a service.
type MachinePort struct {
	Port       *int     `json:"port,omitempty"        yaml:"port,omitempty"`
	StartPort  *int     `json:"start_port,omitempty"  yaml:"start_port,omitempty"`
	EndPort    *int     `json:"end_port,omitempty"    yaml:"end_port,omitempty"`
	Handlers   []string `json:"handlers,omitempty"    yaml:"handlers,omitempty"`
	ForceHTTPS bool     `json:"force_https,omitempty" yaml:"force_https,omitempty"`
}

// MachineServiceConcurrency limits concurrent connections or requests.
type MachineServiceConcurrency struct {
	Type      string `json:"type"       yaml:"type"`
	HardLimit int    `json:"hard_limit" yaml:"hard_limit"`
	SoftLimit int    `json:"soft_limit" yaml:"soft_limit"`
}

// MachineMount attaches a volume.
type MachineMount struct {
	Volume string `json:"volume"            yaml:"volume"`
	Path   string `json:"path"              yaml:"path"`
	Name   string `json:"name,omitempty"    yaml:"name,omitempty"`
	SizeGB int    `json:"size_gb,omitempty" yaml:"size_gb,omitempty"`
}

// MachineCheck is a health check definition.
type MachineCheck struct {
	Type        string `json:"type"                   yaml:"type"`
	Port        *int   `json:"port,omitempty"         yaml:"port,omitempty"`
	Interval    string `json:"interval,omitempty"     yaml:"interval,omitempty"`
	Timeout     string `json:"timeout,omitempty"      yaml:"timeout,omitempty"`
	GracePeriod string `json:"grace_period,omitempty" yaml:"grace_period,omitempty"`
	Method      string `json:"method,omitempty"       yaml:"method,omitempty"`
	Path        string `json:"path,omitempty"         yaml:"path,omitempty"`
}

// StopConfig controls how a machine is stopped.
type StopConfig struct {
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Signal  string `json:"signal,omitempty"  yaml:"signal,omitempty"`
}

// ImageRef is the resolved image of a machine.
type ImageRef struct {
	Registry   string            `json:"registry"         yaml:"registry"`
	Repository string            `json:"repository"       yaml:"repository"`
	Tag        string            `json:"tag"              yaml:"tag"`
	Digest     string            `json:"digest"           yaml:"digest"`
	Labels     map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// CheckStatus is the latest result of a health check.
type CheckStatus struct {
	Name      string    `json:"name"       yaml:"name"`
	Status    string    `json:"status"     yaml:"status"`
	Output    string    `json:"output"     yaml:"output"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// MachineEvent is one entry of a machine's event log. Timestamp is in
// milliseconds since the epoch.
type MachineEvent struct {
	ID        string                 `json:"id"                yaml:"id"`
	Type      string                 `json:"type"              yaml:"type"`
	Status    string                 `json:"status"            yaml:"status"`
	Source    string                 `json:"source"            yaml:"source"`
	Timestamp int64                  `json:"timestamp"         yaml:"timestamp"`
	Request   map[string]interface{} `json:"request,omitempty" yaml:"request,omitempty"`
}

// MachineVersion is one recorded configuration of a machine.
type MachineVersion struct {
	Version    string        `json:"version"     yaml:"version"`
	UserConfig MachineConfig `json:"user_config" yaml:"user_config"`
}

// ListenSocket is a socket a machine process listens on.
type ListenSocket struct {
	Address string `json:"address" yaml:"address"`
	Proto   string `json:"proto"   yaml:"proto"`
}

// ProcessStat describes a process running inside a machine.
type ProcessStat struct {
	PID           int32          `json:"pid"            yaml:"pid"`
	Command       string         `json:"command"        yaml:"command"`
	Directory     string         `json:"directory"      yaml:"directory"`
	CPU           uint64         `json:"cpu"            yaml:"cpu"`
	RSS           uint64         `json:"rss"            yaml:"rss"`
	RTime         uint64         `json:"rtime"          yaml:"rtime"`
	STime         uint64         `json:"stime"          yaml:"stime"`
	ListenSockets []ListenSocket `json:"listen_sockets" yaml:"listen_sockets"`
}

// LeaseData describes who holds a machine lease and until when.
type LeaseData struct {
	Nonce       string `json:"nonce"       yaml:"nonce"`
	ExpiresAt   int64  `json:"expires_at"  yaml:"expires_at"`
	Owner       string `json:"owner"       yaml:"owner"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version"     yaml:"version"`
}

// MachineLease is the lease status of a machine.
type MachineLease struct {
	Status string     `json:"status"         yaml:"status"`
	Data   *LeaseData `json:"data,omitempty" yaml:"data,omitempty"`
}

// OkResponse is the acknowledgement returned by machine actions.
type OkResponse struct {
	Ok bool `json:"ok" yaml:"ok"`
}

// StartMachineResponse is the result of StartMachine.
type StartMachineResponse struct {
	Message       string `json:"message,omitempty" yaml:"message,omitempty"`
	Status        string `json:"status,omitempty"  yaml:"status,omitempty"`
	PreviousState string `json:"previous_state"    yaml:"previous_state"`
}

// GetMachineRequest addresses one machine of an app.
type GetMachineRequest struct {
	AppName   string `json:"-" yaml:"app_name"`
	MachineID string `json:"-" yaml:"machine_id"`
}

// StartMachineRequest addresses the machine to start.
type StartMachineRequest = GetMachineRequest

// CordonMachineRequest addresses the machine to (un)cordon.
type CordonMachineRequest = GetMachineRequest

// ListMachinesRequest filters the machines of an app.
type ListMachinesRequest struct {
	AppName        string
	IncludeDeleted bool
	Region         string
}

// CreateMachineRequest represents a request to create a machine.
type CreateMachineRequest struct {
	AppName                 string        `json:"-"                                   yaml:"app_name"`
	Name                    string        `json:"name,omitempty"                      yaml:"name,omitempty"`
	Region                  string        `json:"region,omitempty"                    yaml:"region,omitempty"`
	Config                  MachineConfig `json:"config"                              yaml:"config"`
	SkipLaunch              bool          `json:"skip_launch,omitempty"               yaml:"skip_launch,omitempty"`
	SkipServiceRegistration bool          `json:"skip_service_registration,omitempty" yaml:"skip_service_registration,omitempty"`
	LeaseTTL                int           `json:"lease_ttl,omitempty"                 yaml:"lease_ttl,omitempty"`
}

// UpdateMachineRequest represents a request to replace a machine's config.
// LeaseNonce, when set, is sent in the lease header.
type UpdateMachineRequest struct {
	AppName                 string        `json:"-"                                   yaml:"app_name"`
	MachineID               string        `json:"-"                                   yaml:"machine_id"`
	LeaseNonce              string        `json:"-"                                   yaml:"lease_nonce,omitempty"`
	Name                    string        `json:"name,omitempty"                      yaml:"name,omitempty"`
	Region                  string        `json:"region,omitempty"                    yaml:"region,omitempty"`
	Config                  MachineConfig `json:"config"                              yaml:"config"`
	SkipLaunch              bool          `json:"skip_launch,omitempty"               yaml:"skip_launch,omitempty"`
	SkipServiceRegistration bool          `json:"skip_service_registration,omitempty" yaml:"skip_service_registration,omitempty"`
}

// DeleteMachineRequest addresses the machine to destroy.
type DeleteMachineRequest struct {
	AppName   string
	MachineID string
	Force     bool
}

// StopMachineRequest represents a request to stop a machine.
type StopMachineRequest struct {
	AppName   string `json:"-"`
	MachineID string `json:"-"`
	Signal    string `json:"signal,omitempty"`
	Timeout   string `json:"timeout,omitempty"`
}

// RestartMachineRequest represents a request to restart a machine.
type RestartMachineRequest struct {
	AppName   string
	MachineID string
	Signal    string
	Timeout   string
}

// SignalMachineRequest sends a signal to a machine.
type SignalMachineRequest struct {
	AppName   string `json:"-"`
	MachineID string `json:"-"`
	Signal    string `json:"signal"`
}

// WaitMachineRequest blocks until a machine reaches a state. Timeout is in
// seconds and is enforced by the server.
type WaitMachineRequest struct {
	AppName    string
	MachineID  string
	InstanceID string
	State      MachineState
	Timeout    int
}

// ListProcessesRequest lists processes of a machine.
type ListProcessesRequest struct {
	AppName   string
	MachineID string
	SortBy    string
	Order     string
}

// AcquireLeaseRequest represents a request to take a machine lease.
type AcquireLeaseRequest struct {
	AppName     string `json:"-"`
	MachineID   string `json:"-"`
	TTL         int    `json:"ttl,omitempty"`
	Description string `json:"description,omitempty"`
}

// ReleaseLeaseRequest releases a held machine lease.
type ReleaseLeaseRequest struct {
	AppName   string
	MachineID string
	Nonce     string
}
