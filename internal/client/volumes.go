package client

import (
	"context"

	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// VolumesClient implements fly.VolumesClient.
type VolumesClient struct {
	httpClient *http.Client
}

// NewVolumesClient creates a new volumes client.
func NewVolumesClient(httpClient *http.Client) *VolumesClient {
	return &VolumesClient{
		httpClient: httpClient,
	}
}

// ListVolumes implements fly.VolumesClient.ListVolumes.
func (c *VolumesClient) ListVolumes(ctx context.Context, appName string) fly.Result[[]fly.Volume] {
	return restCall[[]fly.Volume](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath("apps", appName, "volumes"),
	})
}

// GetVolume implements fly.VolumesClient.GetVolume.
func (c *VolumesClient) GetVolume(ctx context.Context, request fly.GetVolumeRequest) fly.Result[fly.Volume] {
	return restCall[fly.Volume](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath("apps", request.AppName, "volumes", request.VolumeID),
	})
}

// CreateVolume implements fly.VolumesClient.CreateVolume. The app name is
// part of the path, not the body.
func (c *VolumesClient) CreateVolume(ctx context.Context, request *fly.CreateVolumeRequest) fly.Result[fly.Volume] {
	return fly.Safe(func() (*fly.Volume, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		resp, err := c.httpClient.Post(ctx, resourcePath("apps", request.AppName, "volumes"), request)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.Volume](resp)
	})
}

// DeleteVolume implements fly.VolumesClient.DeleteVolume.
func (c *VolumesClient) DeleteVolume(ctx context.Context, request fly.DeleteVolumeRequest) fly.Result[fly.Volume] {
	return restCall[fly.Volume](ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath("apps", request.AppName, "volumes", request.VolumeID),
	})
}

// ExtendVolume implements fly.VolumesClient.ExtendVolume.
func (c *VolumesClient) ExtendVolume(ctx context.Context, request *fly.ExtendVolumeRequest) fly.Result[fly.ExtendVolumeResponse] {
	return fly.Safe(func() (*fly.ExtendVolumeResponse, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		path := resourcePath("apps", request.AppName, "volumes", request.VolumeID, "extend")

		resp, err := c.httpClient.Put(ctx, path, request)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.ExtendVolumeResponse](resp)
	})
}

// ListSnapshots implements fly.VolumesClient.ListSnapshots.
func (c *VolumesClient) ListSnapshots(ctx context.Context, request fly.ListSnapshotsRequest) fly.Result[[]fly.Snapshot] {
	return restCall[[]fly.Snapshot](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath("apps", request.AppName, "volumes", request.VolumeID, "snapshots"),
	})
}
