package fly

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-multierror"
)

// Default endpoints of the platform.
const (
	DefaultGraphQLURL = "https://api.fly.io"
	DefaultAPIURL     = "https://api.machines.dev"
)

// AppsClient defines operations for apps.
type AppsClient interface {
	ListApps(ctx context.Context, orgSlug string) Result[ListAppsResponse]
	ListAppsDetailed(ctx context.Context, orgSlug string) Result[ListAppsDetailedResponse]
	GetApp(ctx context.Context, appName string) Result[App]
	GetAppDetailed(ctx context.Context, appName string) Result[AppDetailed]
	CreateApp(ctx context.Context, request *CreateAppRequest) Result[Empty]
	DeleteApp(ctx context.Context, appName string) Result[Empty]
}

// MachinesClient defines operations for machines.
type MachinesClient interface {
	ListMachines(ctx context.Context, request ListMachinesRequest) Result[[]Machine]
	GetMachine(ctx context.Context, request GetMachineRequest) Result[Machine]
	CreateMachine(ctx context.Context, request *CreateMachineRequest) Result[Machine]
	UpdateMachine(ctx context.Context, request *UpdateMachineRequest) Result[Machine]
	DeleteMachine(ctx context.Context, request DeleteMachineRequest) Result[OkResponse]
	StartMachine(ctx context.Context, request StartMachineRequest) Result[StartMachineResponse]
	StopMachine(ctx context.Context, request *StopMachineRequest) Result[OkResponse]
	RestartMachine(ctx context.Context, request RestartMachineRequest) Result[OkResponse]
	SignalMachine(ctx context.Context, request *SignalMachineRequest) Result[OkResponse]
	WaitMachine(ctx context.Context, request WaitMachineRequest) Result[OkResponse]
	CordonMachine(ctx context.Context, request CordonMachineRequest) Result[OkResponse]
	UncordonMachine(ctx context.Context, request CordonMachineRequest) Result[OkResponse]
	ListEvents(ctx context.Context, request GetMachineRequest) Result[[]MachineEvent]
	ListVersions(ctx context.Context, request GetMachineRequest) Result[[]MachineVersion]
	ListProcesses(ctx context.Context, request ListProcessesRequest) Result[[]ProcessStat]
	GetLease(ctx context.Context, request GetMachineRequest) Result[MachineLease]
	AcquireLease(ctx context.Context, request *AcquireLeaseRequest) Result[MachineLease]
	ReleaseLease(ctx context.Context, request ReleaseLeaseRequest) Result[OkResponse]
}

// NetworksClient defines operations for IP addresses.
type NetworksClient interface {
	AllocateIPAddress(ctx context.Context, input AllocateIPAddressInput) Result[AllocateIPAddressOutput]
	ReleaseIPAddress(ctx context.Context, input ReleaseIPAddressInput) Result[ReleaseIPAddressOutput]
}

// OrganizationsClient defines operations for organizations.
type OrganizationsClient interface {
	GetOrganization(ctx context.Context, slug string) Result[GetOrganizationOutput]
}

// SecretsClient defines operations for app secrets.
type SecretsClient interface {
	SetSecrets(ctx context.Context, input SetSecretsInput) Result[SetSecretsOutput]
	UnsetSecrets(ctx context.Context, input UnsetSecretsInput) Result[UnsetSecretsOutput]
}

// VolumesClient defines operations for volumes.
type VolumesClient interface {
	ListVolumes(ctx context.Context, appName string) Result[[]Volume]
	GetVolume(ctx context.Context, request GetVolumeRequest) Result[Volume]
	CreateVolume(ctx context.Context, request *CreateVolumeRequest) Result[Volume]
	DeleteVolume(ctx context.Context, request DeleteVolumeRequest) Result[Volume]
	ExtendVolume(ctx context.Context, request *ExtendVolumeRequest) Result[ExtendVolumeResponse]
	ListSnapshots(ctx context.Context, request ListSnapshotsRequest) Result[[]Snapshot]
}

// RegionsClient defines operations for platform regions.
type RegionsClient interface {
	GetRegions(ctx context.Context) Result[GetRegionsOutput]
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Apps() AppsClient
	Machines() MachinesClient
	Networks() NetworksClient
	Organizations() OrganizationsClient
	Secrets() SecretsClient
	Volumes() VolumesClient
	Regions() RegionsClient
}

// RawClient exposes the strict transport for documents and paths the
// resource clients do not cover. Failures are returned as *HTTPError,
// *GraphQLError or a wrapped transport error.
type RawClient interface {
	GraphQL(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error
	REST(ctx context.Context, method, path string, body, out interface{}) error
}

type Client interface {
	ResourceClients
	RawClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a fly.Client.
//
// Only APIKey is required. Both base URLs fall back to the production
// endpoints. No timeout or retry policy is applied by the client; bound calls
// with the context passed to each method, or supply an HTTPClient with a
// Timeout.
type Config struct {
	// APIKey is sent as "Authorization: Bearer <APIKey>" on every request.
	APIKey string

	// GraphQLURL is the base of the GraphQL endpoint; "/graphql" is appended.
	GraphQLURL string
	// APIURL is the base of the Machines REST API; "/v1/<path>" is appended.
	APIURL string

	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// HTTPClient replaces the underlying *http.Client.
	HTTPClient *http.Client
}

// WithDefaults returns a copy of the config with empty endpoints filled in.
func (c Config) WithDefaults() Config {
	if c.GraphQLURL == "" {
		c.GraphQLURL = DefaultGraphQLURL
	}

	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}

	return c
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	var result *multierror.Error

	if c.APIKey == "" {
		result = multierror.Append(result, ErrAPIKeyRequired)
	}

	if err := validateBaseURL("graphql url", c.GraphQLURL); err != nil {
		result = multierror.Append(result, err)
	}

	if err := validateBaseURL("api url", c.APIURL); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s %q: %w: %w", name, raw, ErrInvalidURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s %q: %w", name, raw, ErrUnsupportedScheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s %q: %w", name, raw, ErrInvalidURL)
	}

	return nil
}
