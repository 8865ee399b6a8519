package fly

import "time"

// AppStatus is the lifecycle status reported for an app.
type AppStatus string

// App statuses.
const (
	AppStatusDeployed  AppStatus = "deployed"
	AppStatusPending   AppStatus = "pending"
	AppStatusSuspended AppStatus = "suspended"
)

// OrganizationRef identifies the organization owning a resource.
type OrganizationRef struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// App represents an app summary.
type App struct {
	Name         string          `json:"name"         yaml:"name"`
	Status       AppStatus       `json:"status"       yaml:"status"`
	Organization OrganizationRef `json:"organization" yaml:"organization"`
}

// AppMachine is the machine summary embedded in a detailed app.
type AppMachine struct {
	ID     string `json:"id"     yaml:"id"`
	Name   string `json:"name"   yaml:"name"`
	State  string `json:"state"  yaml:"state"`
	Region string `json:"region" yaml:"region"`
}

// IPAddressType is the kind of address allocated to an app.
type IPAddressType string

// IP address types.
const (
	IPAddressTypeV4        IPAddressType = "v4"
	IPAddressTypeV6        IPAddressType = "v6"
	IPAddressTypePrivateV6 IPAddressType = "private_v6"
	IPAddressTypeSharedV4  IPAddressType = "shared_v4"
)

// IPAddress represents an address assigned to an app.
type IPAddress struct {
	ID        string        `json:"id,omitempty"        yaml:"id,omitempty"`
	Type      IPAddressType `json:"type"                yaml:"type"`
	Region    string        `json:"region,omitempty"    yaml:"region,omitempty"`
	Address   string        `json:"address"             yaml:"address"`
	CreatedAt string        `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// AppDetailed is an app with its addresses and machines flattened into
// plain slices.
type AppDetailed struct {
	App         `yaml:",inline"`
	IPAddresses []IPAddress  `json:"ipAddresses" yaml:"ipAddresses"`
	Machines    []AppMachine `json:"machines"    yaml:"machines"`
}

// AppSummary is one entry of the REST app listing.
type AppSummary struct {
	Name         string `json:"name"          yaml:"name"`
	MachineCount int    `json:"machine_count" yaml:"machine_count"`
	Network      string `json:"network"       yaml:"network"`
}

// ListAppsResponse is the REST app listing of an organization.
type ListAppsResponse struct {
	TotalApps int          `json:"total_apps" yaml:"total_apps"`
	Apps      []AppSummary `json:"apps"       yaml:"apps"`
}

// ListAppsDetailedResponse lists every app of an organization in detail.
type ListAppsDetailedResponse struct {
	Apps []AppDetailed `json:"apps" yaml:"apps"`
}

// CreateAppRequest represents a request to create an app.
type CreateAppRequest struct {
	OrgSlug string `json:"org_slug"          yaml:"org_slug"`
	AppName string `json:"app_name"          yaml:"app_name"`
	Network string `json:"network,omitempty" yaml:"network,omitempty"`
}

// OrganizationType distinguishes personal from shared organizations.
type OrganizationType string

// Organization types.
const (
	OrganizationTypePersonal OrganizationType = "PERSONAL"
	OrganizationTypeShared   OrganizationType = "SHARED"
)

// ViewerRole is the caller's role within an organization.
type ViewerRole string

// Viewer roles.
const (
	ViewerRoleAdmin  ViewerRole = "admin"
	ViewerRoleMember ViewerRole = "member"
)

// Organization represents organization metadata.
type Organization struct {
	ID         string           `json:"id"         yaml:"id"`
	Slug       string           `json:"slug"       yaml:"slug"`
	Name       string           `json:"name"       yaml:"name"`
	Type       OrganizationType `json:"type"       yaml:"type"`
	ViewerRole ViewerRole       `json:"viewerRole" yaml:"viewerRole"`
}

// GetOrganizationOutput is the result of an organization lookup.
type GetOrganizationOutput struct {
	Organization Organization `json:"organization" yaml:"organization"`
}

// SecretInput is one key/value pair to set.
type SecretInput struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// SetSecretsInput represents a request to set app secrets.
type SetSecretsInput struct {
	AppID      string        `json:"appId"                yaml:"appId"`
	Secrets    []SecretInput `json:"secrets"              yaml:"secrets"`
	ReplaceAll bool          `json:"replaceAll,omitempty" yaml:"replaceAll,omitempty"`
}

// UnsetSecretsInput represents a request to remove app secrets.
type UnsetSecretsInput struct {
	AppID string   `json:"appId" yaml:"appId"`
	Keys  []string `json:"keys"  yaml:"keys"`
}

// ReleaseUser is the author of a release.
type ReleaseUser struct {
	ID    string `json:"id"    yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name"  yaml:"name"`
}

// Release describes the release created by a secrets change.
type Release struct {
	ID           string      `json:"id"           yaml:"id"`
	Version      int         `json:"version"      yaml:"version"`
	Reason       string      `json:"reason"       yaml:"reason"`
	Description  string      `json:"description"  yaml:"description"`
	User         ReleaseUser `json:"user"         yaml:"user"`
	EvaluationID string      `json:"evaluationId" yaml:"evaluationId"`
	CreatedAt    string      `json:"createdAt"    yaml:"createdAt"`
}

// SecretsPayload carries the release of a secrets mutation. Release is nil
// when the change did not trigger a deploy.
type SecretsPayload struct {
	Release *Release `json:"release" yaml:"release"`
}

// SetSecretsOutput is the result of SetSecrets.
type SetSecretsOutput struct {
	SetSecrets SecretsPayload `json:"setSecrets" yaml:"setSecrets"`
}

// UnsetSecretsOutput is the result of UnsetSecrets.
type UnsetSecretsOutput struct {
	UnsetSecrets SecretsPayload `json:"unsetSecrets" yaml:"unsetSecrets"`
}

// Volume represents a persistent volume.
type Volume struct {
	ID                string    `json:"id"                  yaml:"id"`
	Name              string    `json:"name"                yaml:"name"`
	State             string    `json:"state"               yaml:"state"`
	SizeGB            int       `json:"size_gb"             yaml:"size_gb"`
	Region            string    `json:"region"              yaml:"region"`
	Zone              string    `json:"zone"                yaml:"zone"`
	Encrypted         bool      `json:"encrypted"           yaml:"encrypted"`
	AttachedMachineID *string   `json:"attached_machine_id" yaml:"attached_machine_id"`
	AttachedAllocID   *string   `json:"attached_alloc_id"   yaml:"attached_alloc_id"`
	CreatedAt         time.Time `json:"created_at"          yaml:"created_at"`
	Blocks            int64     `json:"blocks"              yaml:"blocks"`
	BlockSize         int64     `json:"block_size"          yaml:"block_size"`
	BlocksFree        int64     `json:"blocks_free"         yaml:"blocks_free"`
	BlocksAvail       int64     `json:"blocks_avail"        yaml:"blocks_avail"`
	FSType            string    `json:"fstype"              yaml:"fstype"`
	HostDedicationKey string    `json:"host_dedication_key" yaml:"host_dedication_key"`
}

// GetVolumeRequest addresses one volume of an app.
type GetVolumeRequest struct {
	AppName  string `json:"-" yaml:"app_name"`
	VolumeID string `json:"-" yaml:"volume_id"`
}

// DeleteVolumeRequest addresses the volume to destroy.
type DeleteVolumeRequest = GetVolumeRequest

// ListSnapshotsRequest addresses the volume whose snapshots are listed.
type ListSnapshotsRequest = GetVolumeRequest

// CreateVolumeRequest represents a request to create a volume. AppName is
// part of the path and never sent in the body.
type CreateVolumeRequest struct {
	AppName           string  `json:"-"                             yaml:"app_name"`
	Name              string  `json:"name"                          yaml:"name"`
	Region            string  `json:"region"                        yaml:"region"`
	SizeGB            int     `json:"size_gb,omitempty"             yaml:"size_gb,omitempty"`
	Encrypted         *bool   `json:"encrypted,omitempty"           yaml:"encrypted,omitempty"`
	RequireUniqueZone *bool   `json:"require_unique_zone,omitempty" yaml:"require_unique_zone,omitempty"`
	SnapshotID        *string `json:"snapshot_id,omitempty"         yaml:"snapshot_id,omitempty"`
	SnapshotRetention *int    `json:"snapshot_retention,omitempty"  yaml:"snapshot_retention,omitempty"`
	SourceVolumeID    *string `json:"source_volume_id,omitempty"    yaml:"source_volume_id,omitempty"`
	FSType            string  `json:"fstype,omitempty"              yaml:"fstype,omitempty"`
}

// ExtendVolumeRequest represents a request to grow a volume.
type ExtendVolumeRequest struct {
	AppName  string `json:"-"       yaml:"app_name"`
	VolumeID string `json:"-"       yaml:"volume_id"`
	SizeGB   int    `json:"size_gb" yaml:"size_gb"`
}

// ExtendVolumeResponse is the result of ExtendVolume.
type ExtendVolumeResponse struct {
	NeedsRestart bool   `json:"needs_restart" yaml:"needs_restart"`
	Volume       Volume `json:"volume"        yaml:"volume"`
}

// Snapshot represents a volume snapshot.
type Snapshot struct {
	ID        string    `json:"id"                yaml:"id"`
	CreatedAt time.Time `json:"created_at"        yaml:"created_at"`
	Digest    string    `json:"digest"            yaml:"digest"`
	Size      int64     `json:"size"              yaml:"size"`
	Status    string    `json:"status,omitempty"  yaml:"status,omitempty"`
}

// AllocateIPAddressInput represents a request to allocate an address.
type AllocateIPAddressInput struct {
	AppID          string        `json:"appId"                    yaml:"appId"`
	Type           IPAddressType `json:"type"                     yaml:"type"`
	OrganizationID string        `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	Region         string        `json:"region,omitempty"         yaml:"region,omitempty"`
	Network        string        `json:"network,omitempty"        yaml:"network,omitempty"`
}

// AllocateIPAddressPayload carries the allocated address.
type AllocateIPAddressPayload struct {
	IPAddress IPAddress `json:"ipAddress" yaml:"ipAddress"`
}

// AllocateIPAddressOutput is the result of AllocateIPAddress.
type AllocateIPAddressOutput struct {
	AllocateIPAddress AllocateIPAddressPayload `json:"allocateIpAddress" yaml:"allocateIpAddress"`
}

// ReleaseIPAddressInput identifies the address to release, either by ID or
// by app and address.
type ReleaseIPAddressInput struct {
	AppID       string `json:"appId,omitempty"       yaml:"appId,omitempty"`
	IPAddressID string `json:"ipAddressId,omitempty" yaml:"ipAddressId,omitempty"`
	IP          string `json:"ip,omitempty"          yaml:"ip,omitempty"`
}

// AppName names the app an address was released from.
type AppName struct {
	Name string `json:"name" yaml:"name"`
}

// ReleaseIPAddressPayload carries the app the address belonged to.
type ReleaseIPAddressPayload struct {
	App AppName `json:"app" yaml:"app"`
}

// ReleaseIPAddressOutput is the result of ReleaseIPAddress.
type ReleaseIPAddressOutput struct {
	ReleaseIPAddress ReleaseIPAddressPayload `json:"releaseIpAddress" yaml:"releaseIpAddress"`
}

// Region represents a platform region.
type Region struct {
	Name             string  `json:"name"             yaml:"name"`
	Code             string  `json:"code"             yaml:"code"`
	Latitude         float64 `json:"latitude"         yaml:"latitude"`
	Longitude        float64 `json:"longitude"        yaml:"longitude"`
	GatewayAvailable bool    `json:"gatewayAvailable" yaml:"gatewayAvailable"`
	RequiresPaidPlan bool    `json:"requiresPaidPlan" yaml:"requiresPaidPlan"`
}

// Platform describes the platform as seen from the caller.
type Platform struct {
	RequestRegion string   `json:"requestRegion" yaml:"requestRegion"`
	Regions       []Region `json:"regions"       yaml:"regions"`
}

// GetRegionsOutput is the result of GetRegions.
type GetRegionsOutput struct {
	Platform Platform `json:"platform" yaml:"platform"`
}
